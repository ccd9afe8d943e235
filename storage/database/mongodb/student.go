package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/KAILASATEJANI/nam/core/campus"
)

type (
	timetableDoc struct {
		StudentID string              `bson:"studentId"`
		Days      campus.WeekSchedule `bson:"days"`
	}

	attendanceDoc struct {
		StudentID               string `bson:"studentId"`
		campus.AttendanceRecord `bson:",inline"`
	}
)

func (db *DB) GetStudent(ctx context.Context, id string) (campus.Student, bool, error) {
	var st campus.Student
	found, err := findOne(ctx, db.coll(studentsColl), bson.M{"studentId": id}, &st)
	return st, found, err
}

func (db *DB) ListStudents(ctx context.Context) ([]campus.Student, error) {
	return find[campus.Student](ctx, db.coll(studentsColl), bson.M{})
}

func (db *DB) CreateStudent(ctx context.Context, st campus.Student) error {
	return insertUnique(ctx, db.coll(studentsColl), st)
}

func (db *DB) GetTimetable(ctx context.Context, studentID string) (campus.WeekSchedule, error) {
	var doc timetableDoc
	found, err := findOne(ctx, db.coll(timetablesColl), bson.M{"studentId": studentID}, &doc)
	if err != nil {
		return nil, err
	}
	week := campus.EmptyWeek()
	if found {
		for day, slots := range doc.Days {
			if slots == nil {
				slots = []campus.ClassSlot{}
			}
			week[day] = slots
		}
	}
	return week, nil
}

func (db *DB) SetTimetable(ctx context.Context, studentID string, week campus.WeekSchedule) error {
	return replace(ctx, db.coll(timetablesColl), bson.M{"studentId": studentID}, timetableDoc{StudentID: studentID, Days: week})
}

func (db *DB) GetAttendance(ctx context.Context, studentID string) (campus.AttendanceRecord, error) {
	var doc attendanceDoc
	found, err := findOne(ctx, db.coll(attendanceColl), bson.M{"studentId": studentID}, &doc)
	if err != nil {
		return campus.AttendanceRecord{}, err
	}
	if !found {
		return campus.EmptyAttendance(), nil
	}
	if doc.Subjects == nil {
		doc.Subjects = []campus.SubjectAttendance{}
	}
	return doc.AttendanceRecord, nil
}

func (db *DB) SetAttendance(ctx context.Context, studentID string, rec campus.AttendanceRecord) error {
	return replace(ctx, db.coll(attendanceColl), bson.M{"studentId": studentID}, attendanceDoc{StudentID: studentID, AttendanceRecord: rec})
}

func (db *DB) ListAssignments(ctx context.Context, studentID string) ([]campus.Assignment, error) {
	return find[campus.Assignment](ctx, db.coll(assignmentsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddAssignment(ctx context.Context, a campus.Assignment) error {
	return insert(ctx, db.coll(assignmentsColl), a)
}

func (db *DB) ListNotifications(ctx context.Context, studentID string) ([]campus.Notification, error) {
	return find[campus.Notification](ctx, db.coll(notificationsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddNotification(ctx context.Context, n campus.Notification) error {
	return insert(ctx, db.coll(notificationsColl), n)
}

func (db *DB) ListBookings(ctx context.Context, studentID string) ([]campus.Booking, error) {
	return find[campus.Booking](ctx, db.coll(bookingsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddBooking(ctx context.Context, b campus.Booking) error {
	return insert(ctx, db.coll(bookingsColl), b)
}

func (db *DB) ListLogs(ctx context.Context, studentID string) ([]campus.LogEntry, error) {
	return find[campus.LogEntry](ctx, db.coll(logsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddLog(ctx context.Context, l campus.LogEntry) error {
	return insert(ctx, db.coll(logsColl), l)
}

func (db *DB) ListMaterials(ctx context.Context, studentID string) ([]campus.Material, error) {
	return find[campus.Material](ctx, db.coll(materialsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddMaterial(ctx context.Context, m campus.Material) error {
	return insert(ctx, db.coll(materialsColl), m)
}

func (db *DB) ListExams(ctx context.Context, studentID string) ([]campus.Exam, error) {
	return find[campus.Exam](ctx, db.coll(examsColl), bson.M{"studentId": studentID})
}

func (db *DB) AddExam(ctx context.Context, e campus.Exam) error {
	return insert(ctx, db.coll(examsColl), e)
}

func (db *DB) ListFeedback(ctx context.Context, studentID string) ([]campus.Feedback, error) {
	return find[campus.Feedback](ctx, db.coll(feedbackColl), bson.M{"studentId": studentID})
}

func (db *DB) AddFeedback(ctx context.Context, f campus.Feedback) error {
	return insert(ctx, db.coll(feedbackColl), f)
}
