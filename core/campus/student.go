package campus

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const progressThreshold = 85

var weeklyPerformance = []PerformancePoint{
	{Label: "Week 1", Marks: 72},
	{Label: "Week 2", Marks: 76},
	{Label: "Week 3", Marks: 81},
	{Label: "Week 4", Marks: 85},
}

func (svc *Service) Timetable(ctx context.Context, studentID string) (WeekSchedule, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	week, err := svc.store.GetTimetable(ctx, studentID)
	return week, errors.Wrap(err, "getting timetable")
}

func (svc *Service) Attendance(ctx context.Context, studentID string) (AttendanceRecord, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return AttendanceRecord{}, err
	}
	rec, err := svc.store.GetAttendance(ctx, studentID)
	return rec, errors.Wrap(err, "getting attendance")
}

func (svc *Service) Assignments(ctx context.Context, studentID string) ([]Assignment, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListAssignments(ctx, studentID)
	return list, errors.Wrap(err, "listing assignments")
}

// SubmitAssignment records a submitted assignment and a timeline entry for it.
func (svc *Service) SubmitAssignment(ctx context.Context, studentID string, ns NewSubmission) (Assignment, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return Assignment{}, err
	}
	ns.Clean()

	now := svc.now()
	a := Assignment{
		ID:          svc.newID(),
		StudentID:   studentID,
		Title:       firstNonEmpty(ns.Title, "Submission"),
		DueDate:     now,
		Status:      AssignmentSubmitted,
		SubmittedAt: &now,
		FileName:    ns.FileName,
	}
	if err := svc.store.AddAssignment(ctx, a); err != nil {
		return Assignment{}, errors.Wrap(err, "adding assignment")
	}

	action := "Submitted assignment: " + firstNonEmpty(ns.Title, ns.FileName, "Assignment")
	if _, err := svc.appendLog(ctx, studentID, action); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) Notifications(ctx context.Context, studentID string) ([]Notification, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListNotifications(ctx, studentID)
	return list, errors.Wrap(err, "listing notifications")
}

// CreateBooking stores a pending booking request and a timeline entry for it.
func (svc *Service) CreateBooking(ctx context.Context, studentID string, nb NewBooking) (Booking, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return Booking{}, err
	}

	b := Booking{
		ID:           svc.newID(),
		StudentID:    studentID,
		ResourceType: nb.ResourceType,
		Room:         nb.Room,
		Date:         nb.Date,
		TimeSlot:     nb.TimeSlot,
		Status:       StatusPending,
		CreatedAt:    svc.now(),
	}
	if err := svc.store.AddBooking(ctx, b); err != nil {
		return Booking{}, errors.Wrap(err, "adding booking")
	}

	action := fmt.Sprintf("Requested booking for %s %s on %s %s", b.ResourceType, b.Room, b.Date, b.TimeSlot)
	if _, err := svc.appendLog(ctx, studentID, action); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (svc *Service) Bookings(ctx context.Context, studentID string) ([]Booking, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListBookings(ctx, studentID)
	return list, errors.Wrap(err, "listing bookings")
}

// IDCard returns the digital ID of the student; QRData is what attendance scanners read.
func (svc *Service) IDCard(ctx context.Context, studentID string) (IDCard, error) {
	st, err := svc.EnsureStudent(ctx, studentID)
	if err != nil {
		return IDCard{}, err
	}
	return IDCard{Student: st, QRData: QRPayload(studentID)}, nil
}

func QRPayload(studentID string) string {
	return "ATTEND:" + studentID
}

func (svc *Service) Analytics(ctx context.Context, studentID string) (Analytics, error) {
	rec, err := svc.Attendance(ctx, studentID)
	if err != nil {
		return Analytics{}, err
	}

	dist := make([]DistributionPoint, 0, len(rec.Subjects))
	for _, s := range rec.Subjects {
		dist = append(dist, DistributionPoint{Label: s.Name, Value: s.Percentage})
	}
	msg := "Attendance needs attention."
	if rec.Percentage >= progressThreshold {
		msg = "You're on track for 85%+ attendance."
	}
	perf := make([]PerformancePoint, len(weeklyPerformance))
	copy(perf, weeklyPerformance)

	return Analytics{
		AttendancePercent: rec.Percentage,
		Distribution:      dist,
		Performance:       perf,
		ProgressMessage:   msg,
	}, nil
}

func (svc *Service) Timeline(ctx context.Context, studentID string) ([]LogEntry, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListLogs(ctx, studentID)
	return list, errors.Wrap(err, "listing logs")
}

func (svc *Service) Materials(ctx context.Context, studentID string) ([]Material, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListMaterials(ctx, studentID)
	return list, errors.Wrap(err, "listing materials")
}

func (svc *Service) Exams(ctx context.Context, studentID string) ([]Exam, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListExams(ctx, studentID)
	return list, errors.Wrap(err, "listing exams")
}

func (svc *Service) SubmitFeedback(ctx context.Context, studentID string, nf NewFeedback) (Feedback, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return Feedback{}, err
	}
	f := Feedback{
		ID:        svc.newID(),
		StudentID: studentID,
		Rating:    nf.Rating,
		Comment:   nf.Comment,
		CreatedAt: svc.now(),
	}
	return f, errors.Wrap(svc.store.AddFeedback(ctx, f), "adding feedback")
}

func (svc *Service) Feedback(ctx context.Context, studentID string) ([]Feedback, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListFeedback(ctx, studentID)
	return list, errors.Wrap(err, "listing feedback")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
