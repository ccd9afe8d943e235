package campus

import "time"

// Assignment statuses
const (
	AssignmentPending   = "pending"
	AssignmentSubmitted = "submitted"
)

// Booking, leave & scholarship statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Transaction statuses
const (
	TxnCompleted = "completed"
	TxnRefunded  = "refunded"
)

// Weekdays a WeekSchedule always carries.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

type (
	Student struct {
		StudentID  string `json:"studentId" bson:"studentId"`
		Name       string `json:"name" bson:"name"`
		Email      string `json:"email" bson:"email"`
		Department string `json:"department" bson:"department"`
		Semester   string `json:"semester" bson:"semester"`
		Program    string `json:"program" bson:"program"`
	}

	ClassSlot struct {
		Time    string `json:"time" bson:"time"`
		Subject string `json:"subject" bson:"subject"`
		Faculty string `json:"faculty" bson:"faculty"`
		Room    string `json:"room" bson:"room"`
		Type    string `json:"type" bson:"type"`
	}

	// WeekSchedule maps a weekday name to its ordered class slots.
	WeekSchedule map[string][]ClassSlot

	SubjectAttendance struct {
		Name       string  `json:"name" bson:"name"`
		Present    int     `json:"present" bson:"present"`
		Total      int     `json:"total" bson:"total"`
		Percentage float64 `json:"percentage" bson:"percentage"`
	}

	AttendanceRecord struct {
		Total      int                 `json:"total" bson:"total"`
		Present    int                 `json:"present" bson:"present"`
		Percentage float64             `json:"percentage" bson:"percentage"`
		Subjects   []SubjectAttendance `json:"subjects" bson:"subjects"`
	}

	Assignment struct {
		ID          string     `json:"id" bson:"id"`
		StudentID   string     `json:"studentId" bson:"studentId"`
		Title       string     `json:"title" bson:"title"`
		DueDate     time.Time  `json:"dueDate" bson:"dueDate"`
		Status      string     `json:"status" bson:"status"`
		SubmittedAt *time.Time `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
		FileName    string     `json:"fileName,omitempty" bson:"fileName,omitempty"`
	}

	Notification struct {
		ID        string    `json:"id" bson:"id"`
		StudentID string    `json:"studentId" bson:"studentId"`
		Message   string    `json:"message" bson:"message"`
		CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
		Unread    bool      `json:"unread" bson:"unread"`
	}

	Booking struct {
		ID           string    `json:"id" bson:"id"`
		StudentID    string    `json:"studentId" bson:"studentId"`
		ResourceType string    `json:"resourceType" bson:"resourceType"`
		Room         string    `json:"room" bson:"room"`
		Date         string    `json:"date" bson:"date"`
		TimeSlot     string    `json:"timeSlot" bson:"timeSlot"`
		Status       string    `json:"status" bson:"status"`
		CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	}

	// LogEntry is a student's timeline entry. It doubles as the realtime event payload.
	LogEntry struct {
		ID        string    `json:"id" bson:"id"`
		StudentID string    `json:"studentId" bson:"studentId"`
		Action    string    `json:"action" bson:"action"`
		CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	}

	Material struct {
		ID        string `json:"id" bson:"id"`
		StudentID string `json:"studentId" bson:"studentId"`
		Title     string `json:"title" bson:"title"`
		Type      string `json:"type" bson:"type"`
		URL       string `json:"url" bson:"url"`
	}

	Exam struct {
		ID        string    `json:"id" bson:"id"`
		StudentID string    `json:"studentId" bson:"studentId"`
		Subject   string    `json:"subject" bson:"subject"`
		Date      time.Time `json:"date" bson:"date"`
	}

	Feedback struct {
		ID        string    `json:"id" bson:"id"`
		StudentID string    `json:"studentId" bson:"studentId"`
		Rating    int       `json:"rating" bson:"rating"`
		Comment   string    `json:"comment" bson:"comment"`
		CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	}

	IDCard struct {
		Student
		QRData string `json:"qrData"`
	}

	DistributionPoint struct {
		Label string  `json:"label"`
		Value float64 `json:"value"`
	}

	PerformancePoint struct {
		Label string `json:"label"`
		Marks int    `json:"marks"`
	}

	Analytics struct {
		AttendancePercent float64             `json:"attendancePercent"`
		Distribution      []DistributionPoint `json:"distribution"`
		Performance       []PerformancePoint  `json:"performance"`
		ProgressMessage   string              `json:"progressMessage"`
	}
)

// EmptyWeek returns a WeekSchedule with every weekday present and empty.
func EmptyWeek() WeekSchedule {
	week := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		week[day] = []ClassSlot{}
	}
	return week
}

// EmptyAttendance is the attendance snapshot of a student nothing was recorded for.
func EmptyAttendance() AttendanceRecord {
	return AttendanceRecord{Subjects: []SubjectAttendance{}}
}
