package inmemdb

import (
	"context"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) GetStudent(_ context.Context, id string) (campus.Student, bool, error) {
	st, found := db.students.find(func(st campus.Student) bool { return st.StudentID == id })
	return st, found, nil
}

func (db *DB) ListStudents(context.Context) ([]campus.Student, error) {
	return db.students.filter(all[campus.Student]), nil
}

func (db *DB) CreateStudent(_ context.Context, st campus.Student) error {
	if !db.students.addUnique(st, func(s campus.Student) bool { return s.StudentID == st.StudentID }) {
		return campus.ErrDuplicate
	}
	return nil
}

func (db *DB) GetTimetable(_ context.Context, studentID string) (campus.WeekSchedule, error) {
	week, ok := db.timetables.get(studentID)
	if !ok {
		return campus.EmptyWeek(), nil
	}
	return copyWeek(week), nil
}

func (db *DB) SetTimetable(_ context.Context, studentID string, week campus.WeekSchedule) error {
	db.timetables.set(studentID, copyWeek(week))
	return nil
}

func (db *DB) GetAttendance(_ context.Context, studentID string) (campus.AttendanceRecord, error) {
	rec, ok := db.attendance.get(studentID)
	if !ok {
		return campus.EmptyAttendance(), nil
	}
	return copyAttendance(rec), nil
}

func (db *DB) SetAttendance(_ context.Context, studentID string, rec campus.AttendanceRecord) error {
	db.attendance.set(studentID, copyAttendance(rec))
	return nil
}

func (db *DB) ListAssignments(_ context.Context, studentID string) ([]campus.Assignment, error) {
	return db.assignments.filter(func(a campus.Assignment) bool { return a.StudentID == studentID }), nil
}

func (db *DB) AddAssignment(_ context.Context, a campus.Assignment) error {
	if a.SubmittedAt != nil {
		at := *a.SubmittedAt
		a.SubmittedAt = &at
	}
	db.assignments.add(a)
	return nil
}

func (db *DB) ListNotifications(_ context.Context, studentID string) ([]campus.Notification, error) {
	return db.notifications.filter(func(n campus.Notification) bool { return n.StudentID == studentID }), nil
}

func (db *DB) AddNotification(_ context.Context, n campus.Notification) error {
	db.notifications.add(n)
	return nil
}

func (db *DB) ListBookings(_ context.Context, studentID string) ([]campus.Booking, error) {
	return db.bookings.filter(func(b campus.Booking) bool { return b.StudentID == studentID }), nil
}

func (db *DB) AddBooking(_ context.Context, b campus.Booking) error {
	db.bookings.add(b)
	return nil
}

func (db *DB) ListLogs(_ context.Context, studentID string) ([]campus.LogEntry, error) {
	return db.logs.filter(func(l campus.LogEntry) bool { return l.StudentID == studentID }), nil
}

func (db *DB) AddLog(_ context.Context, l campus.LogEntry) error {
	db.logs.add(l)
	return nil
}

func (db *DB) ListMaterials(_ context.Context, studentID string) ([]campus.Material, error) {
	return db.materials.filter(func(m campus.Material) bool { return m.StudentID == studentID }), nil
}

func (db *DB) AddMaterial(_ context.Context, m campus.Material) error {
	db.materials.add(m)
	return nil
}

func (db *DB) ListExams(_ context.Context, studentID string) ([]campus.Exam, error) {
	return db.exams.filter(func(e campus.Exam) bool { return e.StudentID == studentID }), nil
}

func (db *DB) AddExam(_ context.Context, e campus.Exam) error {
	db.exams.add(e)
	return nil
}

func (db *DB) ListFeedback(_ context.Context, studentID string) ([]campus.Feedback, error) {
	return db.feedback.filter(func(f campus.Feedback) bool { return f.StudentID == studentID }), nil
}

func (db *DB) AddFeedback(_ context.Context, f campus.Feedback) error {
	db.feedback.add(f)
	return nil
}

func copyWeek(week campus.WeekSchedule) campus.WeekSchedule {
	out := campus.EmptyWeek()
	for day, slots := range week {
		cp := make([]campus.ClassSlot, len(slots))
		copy(cp, slots)
		out[day] = cp
	}
	return out
}

func copyAttendance(rec campus.AttendanceRecord) campus.AttendanceRecord {
	subjects := make([]campus.SubjectAttendance, len(rec.Subjects))
	copy(subjects, rec.Subjects)
	rec.Subjects = subjects
	return rec
}
