package campus

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotFound        = errors.New("not found")
	ErrAlreadyResolved = errors.New("scholarship already resolved")
	ErrDuplicate       = errors.New("already exists")
)

type (
	ScholarshipFilter struct {
		ID        string
		StudentID string
		Status    string
	}

	ReminderFilter struct {
		StudentID  string
		UnsentOnly bool
	}

	// StudentRepository holds the per-student collections.
	// Getters never fail for an unknown id: they return the defined-empty value instead.
	StudentRepository interface {
		GetStudent(ctx context.Context, id string) (Student, bool, error)
		ListStudents(ctx context.Context) ([]Student, error)
		// CreateStudent returns ErrDuplicate when the student id is taken.
		CreateStudent(ctx context.Context, st Student) error

		GetTimetable(ctx context.Context, studentID string) (WeekSchedule, error)
		SetTimetable(ctx context.Context, studentID string, week WeekSchedule) error
		GetAttendance(ctx context.Context, studentID string) (AttendanceRecord, error)
		SetAttendance(ctx context.Context, studentID string, rec AttendanceRecord) error

		ListAssignments(ctx context.Context, studentID string) ([]Assignment, error)
		AddAssignment(ctx context.Context, a Assignment) error
		ListNotifications(ctx context.Context, studentID string) ([]Notification, error)
		AddNotification(ctx context.Context, n Notification) error
		ListBookings(ctx context.Context, studentID string) ([]Booking, error)
		AddBooking(ctx context.Context, b Booking) error
		ListLogs(ctx context.Context, studentID string) ([]LogEntry, error)
		AddLog(ctx context.Context, l LogEntry) error
		ListMaterials(ctx context.Context, studentID string) ([]Material, error)
		AddMaterial(ctx context.Context, m Material) error
		ListExams(ctx context.Context, studentID string) ([]Exam, error)
		AddExam(ctx context.Context, e Exam) error
		ListFeedback(ctx context.Context, studentID string) ([]Feedback, error)
		AddFeedback(ctx context.Context, f Feedback) error
	}

	// FeeRepository holds the fee catalog and the per-student fee collections.
	// An empty filter value matches every record.
	FeeRepository interface {
		ListFeeStructures(ctx context.Context, program, semester string) ([]FeeStructure, error)
		AddFeeStructure(ctx context.Context, f FeeStructure) error
		ListTransactions(ctx context.Context, studentID string) ([]Transaction, error)
		AddTransaction(ctx context.Context, t Transaction) error
		ListScholarships(ctx context.Context, filter ScholarshipFilter) ([]Scholarship, error)
		AddScholarship(ctx context.Context, s Scholarship) error
		// UpdateScholarship replaces the status and approver of the scholarship with s.ID.
		UpdateScholarship(ctx context.Context, s Scholarship) error
		ListDueReminders(ctx context.Context, filter ReminderFilter) ([]DueReminder, error)
		AddDueReminder(ctx context.Context, r DueReminder) error
		MarkDueReminderSent(ctx context.Context, id string) error
	}

	// FacultyRepository holds the per-faculty collections.
	FacultyRepository interface {
		GetFaculty(ctx context.Context, id string) (Faculty, bool, error)
		// CreateFaculty returns ErrDuplicate when the faculty id is taken.
		CreateFaculty(ctx context.Context, f Faculty) error
		GetFacultySchedule(ctx context.Context, facultyID string) ([]FacultyClass, error)
		SetFacultySchedule(ctx context.Context, facultyID string, classes []FacultyClass) error
		ListLeaves(ctx context.Context, facultyID string) ([]Leave, error)
		AddLeave(ctx context.Context, facultyID string, l Leave) error
		GetWorkload(ctx context.Context, facultyID string) (Workload, error)
		SetWorkload(ctx context.Context, facultyID string, w Workload) error
	}

	// Store is the entity store backing every endpoint. Implementations are safe for concurrent use
	// and return lists in insertion order.
	Store interface {
		StudentRepository
		FeeRepository
		FacultyRepository

		// Name reports the backend kind: "memory", "mongo" or "postgres".
		Name() string
		Close(ctx context.Context) error
	}
)
