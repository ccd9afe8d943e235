package pgdb

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) GetStudent(ctx context.Context, id string) (campus.Student, bool, error) {
	var r studentRow
	err := db.db.GetContext(ctx, &r,
		`SELECT student_id, name, email, department, semester, program FROM students WHERE student_id = $1`, id)
	found, err := trapNoRowsErr(err, "getting student")
	return campus.Student(r), found, err
}

func (db *DB) ListStudents(ctx context.Context) ([]campus.Student, error) {
	var rows []studentRow
	if err := db.db.SelectContext(ctx, &rows,
		`SELECT student_id, name, email, department, semester, program FROM students ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	return convert(rows, func(r studentRow) campus.Student { return campus.Student(r) }), nil
}

func (db *DB) CreateStudent(ctx context.Context, st campus.Student) error {
	return db.insertUnique(ctx, `INSERT INTO students (student_id, name, email, department, semester, program)
		VALUES (:student_id, :name, :email, :department, :semester, :program)`, studentRow(st), "student")
}

// getJSON decodes the JSONB column of the row keyed by id into v and reports whether the row exists.
func (db *DB) getJSON(ctx context.Context, query, id string, v interface{}) (bool, error) {
	var raw []byte
	found, err := trapNoRowsErr(db.db.GetContext(ctx, &raw, query, id), "getting document")
	if err != nil || !found {
		return found, err
	}
	return true, errors.Wrap(json.Unmarshal(raw, v), "decoding document")
}

// setJSON upserts v as the JSONB column of the row keyed by id.
func (db *DB) setJSON(ctx context.Context, query, id string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	_, err = db.db.ExecContext(ctx, query, id, string(raw))
	return errors.Wrap(err, "upserting document")
}

func (db *DB) GetTimetable(ctx context.Context, studentID string) (campus.WeekSchedule, error) {
	var days campus.WeekSchedule
	if _, err := db.getJSON(ctx, `SELECT days FROM timetables WHERE student_id = $1`, studentID, &days); err != nil {
		return nil, err
	}
	week := campus.EmptyWeek()
	for day, slots := range days {
		if slots == nil {
			slots = []campus.ClassSlot{}
		}
		week[day] = slots
	}
	return week, nil
}

func (db *DB) SetTimetable(ctx context.Context, studentID string, week campus.WeekSchedule) error {
	return db.setJSON(ctx, `INSERT INTO timetables (student_id, days) VALUES ($1, $2)
		ON CONFLICT (student_id) DO UPDATE SET days = EXCLUDED.days`, studentID, week)
}

func (db *DB) GetAttendance(ctx context.Context, studentID string) (campus.AttendanceRecord, error) {
	rec := campus.EmptyAttendance()
	if _, err := db.getJSON(ctx, `SELECT record FROM attendance WHERE student_id = $1`, studentID, &rec); err != nil {
		return campus.AttendanceRecord{}, err
	}
	if rec.Subjects == nil {
		rec.Subjects = []campus.SubjectAttendance{}
	}
	return rec, nil
}

func (db *DB) SetAttendance(ctx context.Context, studentID string, rec campus.AttendanceRecord) error {
	return db.setJSON(ctx, `INSERT INTO attendance (student_id, record) VALUES ($1, $2)
		ON CONFLICT (student_id) DO UPDATE SET record = EXCLUDED.record`, studentID, rec)
}

func (db *DB) ListAssignments(ctx context.Context, studentID string) ([]campus.Assignment, error) {
	var rows []assignmentRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, title, due_date, status, submitted_at, file_name
		FROM assignments WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}
	return convert(rows, assignmentRow.assignment), nil
}

func (db *DB) AddAssignment(ctx context.Context, a campus.Assignment) error {
	return db.insert(ctx, `INSERT INTO assignments (id, student_id, title, due_date, status, submitted_at, file_name)
		VALUES (:id, :student_id, :title, :due_date, :status, :submitted_at, :file_name)`, toAssignmentRow(a), "assignment")
}

func (db *DB) ListNotifications(ctx context.Context, studentID string) ([]campus.Notification, error) {
	var rows []notificationRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, message, created_at, unread
		FROM notifications WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return convert(rows, func(r notificationRow) campus.Notification {
		r.CreatedAt = r.CreatedAt.UTC()
		return campus.Notification(r)
	}), nil
}

func (db *DB) AddNotification(ctx context.Context, n campus.Notification) error {
	return db.insert(ctx, `INSERT INTO notifications (id, student_id, message, created_at, unread)
		VALUES (:id, :student_id, :message, :created_at, :unread)`, notificationRow(n), "notification")
}

func (db *DB) ListBookings(ctx context.Context, studentID string) ([]campus.Booking, error) {
	var rows []bookingRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, resource_type, room, date, time_slot, status, created_at
		FROM bookings WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing bookings")
	}
	return convert(rows, func(r bookingRow) campus.Booking {
		r.CreatedAt = r.CreatedAt.UTC()
		return campus.Booking(r)
	}), nil
}

func (db *DB) AddBooking(ctx context.Context, b campus.Booking) error {
	return db.insert(ctx, `INSERT INTO bookings (id, student_id, resource_type, room, date, time_slot, status, created_at)
		VALUES (:id, :student_id, :resource_type, :room, :date, :time_slot, :status, :created_at)`, bookingRow(b), "booking")
}

func (db *DB) ListLogs(ctx context.Context, studentID string) ([]campus.LogEntry, error) {
	var rows []logRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, action, created_at
		FROM logs WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing logs")
	}
	return convert(rows, func(r logRow) campus.LogEntry {
		r.CreatedAt = r.CreatedAt.UTC()
		return campus.LogEntry(r)
	}), nil
}

func (db *DB) AddLog(ctx context.Context, l campus.LogEntry) error {
	return db.insert(ctx, `INSERT INTO logs (id, student_id, action, created_at)
		VALUES (:id, :student_id, :action, :created_at)`, logRow(l), "log")
}

func (db *DB) ListMaterials(ctx context.Context, studentID string) ([]campus.Material, error) {
	var rows []materialRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, title, type, url
		FROM materials WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing materials")
	}
	return convert(rows, func(r materialRow) campus.Material { return campus.Material(r) }), nil
}

func (db *DB) AddMaterial(ctx context.Context, m campus.Material) error {
	return db.insert(ctx, `INSERT INTO materials (id, student_id, title, type, url)
		VALUES (:id, :student_id, :title, :type, :url)`, materialRow(m), "material")
}

func (db *DB) ListExams(ctx context.Context, studentID string) ([]campus.Exam, error) {
	var rows []examRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, subject, date
		FROM exams WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing exams")
	}
	return convert(rows, func(r examRow) campus.Exam {
		r.Date = r.Date.UTC()
		return campus.Exam(r)
	}), nil
}

func (db *DB) AddExam(ctx context.Context, e campus.Exam) error {
	return db.insert(ctx, `INSERT INTO exams (id, student_id, subject, date)
		VALUES (:id, :student_id, :subject, :date)`, examRow(e), "exam")
}

func (db *DB) ListFeedback(ctx context.Context, studentID string) ([]campus.Feedback, error) {
	var rows []feedbackRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, rating, comment, created_at
		FROM feedback WHERE student_id = $1 ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing feedback")
	}
	return convert(rows, func(r feedbackRow) campus.Feedback {
		return campus.Feedback{
			ID:        r.ID,
			StudentID: r.StudentID,
			Rating:    r.Rating,
			Comment:   r.Comment.String,
			CreatedAt: r.CreatedAt.UTC(),
		}
	}), nil
}

func (db *DB) AddFeedback(ctx context.Context, f campus.Feedback) error {
	row := feedbackRow{
		ID:        f.ID,
		StudentID: f.StudentID,
		Rating:    f.Rating,
		Comment:   nullString(f.Comment),
		CreatedAt: f.CreatedAt.UTC(),
	}
	return db.insert(ctx, `INSERT INTO feedback (id, student_id, rating, comment, created_at)
		VALUES (:id, :student_id, :rating, :comment, :created_at)`, row, "feedback")
}
