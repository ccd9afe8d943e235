package campus

import (
	"strings"
	"time"

	"github.com/KAILASATEJANI/nam/core"
)

const (
	day = 24 * time.Hour

	seedDepartment   = "Computer Science"
	seedSemester     = "5"
	seedAcademicYear = "2024-25"
)

type (
	StudentSeed struct {
		Student       Student
		Timetable     WeekSchedule
		Attendance    AttendanceRecord
		Assignments   []Assignment
		Notifications []Notification
		Logs          []LogEntry
		Materials     []Material
		Exams         []Exam
		Transactions  []Transaction
		Scholarships  []Scholarship
		DueReminders  []DueReminder
	}

	FacultySeed struct {
		Faculty  Faculty
		Schedule []FacultyClass
		Leaves   []Leave
		Workload Workload
	}
)

// NewStudentSeed builds the sample dataset of a student first seen at `now`.
func NewStudentSeed(id, program string, now time.Time, newID func() string) StudentSeed {
	week := EmptyWeek()
	week["monday"] = []ClassSlot{
		{Time: "09:00-10:00", Subject: "Data Structures", Faculty: "Dr. Jane Smith", Room: "CS-101", Type: "Lecture"},
		{Time: "10:00-11:00", Subject: "Algorithms", Faculty: "Prof. Mike Johnson", Room: "CS-102", Type: "Lecture"},
	}
	week["tuesday"] = []ClassSlot{
		{Time: "11:00-12:00", Subject: "Software Engineering", Faculty: "Dr. Lisa Anderson", Room: "CS-106", Type: "Lecture"},
	}

	return StudentSeed{
		Student: Student{
			StudentID:  id,
			Name:       "Student " + id,
			Email:      strings.ToLower(id) + "@example.com",
			Department: seedDepartment,
			Semester:   seedSemester,
			Program:    program,
		},
		Timetable: week,
		Attendance: NewAttendanceRecord(
			SubjectAttendance{Name: "Data Structures", Present: 20, Total: 22},
			SubjectAttendance{Name: "Algorithms", Present: 18, Total: 20},
			SubjectAttendance{Name: "Database Systems", Present: 19, Total: 20},
		),
		Assignments: []Assignment{
			{ID: newID(), StudentID: id, Title: "DS Lab Report", DueDate: now.Add(3 * day), Status: AssignmentPending},
			{ID: newID(), StudentID: id, Title: "Algorithms Homework 4", DueDate: now.Add(6 * day), Status: AssignmentPending},
		},
		Notifications: []Notification{
			{ID: newID(), StudentID: id, Message: "Classroom 204 shifted to 206 at 10 AM", CreatedAt: now, Unread: true},
			{ID: newID(), StudentID: id, Message: "Midterm schedule released", CreatedAt: now.Add(-day), Unread: false},
		},
		Logs: []LogEntry{
			{ID: newID(), StudentID: id, Action: "Faculty updated DS Lab timing", CreatedAt: now},
			{ID: newID(), StudentID: id, Action: "New assignment posted: Algorithms HW4", CreatedAt: now},
		},
		Materials: []Material{
			{ID: newID(), StudentID: id, Title: "Data Structures Notes", Type: "PDF", URL: "#"},
			{ID: newID(), StudentID: id, Title: "Algorithms Cheat Sheet", Type: "PDF", URL: "#"},
		},
		Exams: []Exam{
			{ID: newID(), StudentID: id, Subject: "Data Structures", Date: now.Add(5 * day)},
			{ID: newID(), StudentID: id, Subject: "Algorithms", Date: now.Add(9 * day)},
		},
		Transactions: []Transaction{
			{
				ID: newID(), StudentID: id, AmountPaid: 50000, Date: now.Add(-30 * day), Mode: "UPI",
				ReceiptURL: "#", Status: TxnCompleted, FeeType: "Tuition", TransactionID: "TXN001",
			},
			{
				ID: newID(), StudentID: id, AmountPaid: 2000, Date: now.Add(-15 * day), Mode: "Card",
				ReceiptURL: "#", Status: TxnCompleted, FeeType: "Library", TransactionID: "TXN002",
			},
		},
		Scholarships: []Scholarship{
			{
				ID: newID(), StudentID: id, DiscountType: "Merit", Amount: 10000, ApprovedBy: "HOD",
				Status: StatusApproved, CreatedAt: now.Add(-20 * day),
			},
		},
		DueReminders: []DueReminder{
			{ID: newID(), StudentID: id, DueDate: now.Add(7 * day), Amount: 5000, FeeType: "Lab"},
			{ID: newID(), StudentID: id, DueDate: now.Add(15 * day), Amount: 3000, FeeType: "Exam"},
		},
	}
}

// NewFeeCatalog builds the fee rows of a (program, semester) pair.
func NewFeeCatalog(program, semester string, newID func() string) []FeeStructure {
	rows := []struct {
		feeType string
		amount  float64
	}{
		{"Tuition", 50000},
		{"Library", 2000},
		{"Lab", 5000},
		{"Exam", 3000},
	}
	catalog := make([]FeeStructure, 0, len(rows))
	for _, r := range rows {
		catalog = append(catalog, FeeStructure{
			ID:           newID(),
			Program:      program,
			Semester:     semester,
			FeeType:      r.feeType,
			Amount:       r.amount,
			AcademicYear: seedAcademicYear,
		})
	}
	return catalog
}

// NewFacultySeed builds the sample dataset of a faculty member first seen at `now`.
func NewFacultySeed(id string, now time.Time) FacultySeed {
	today := now.UTC().Format("2006-01-02")
	yesterday := now.Add(-day).UTC().Format("2006-01-02")

	return FacultySeed{
		Faculty: Faculty{
			FacultyID:   id,
			Name:        "Prof. Smith",
			Email:       "smith@example.com",
			Department:  seedDepartment,
			Designation: "Professor",
		},
		Schedule: []FacultyClass{
			{ID: 1, Subject: "Data Structures", Time: "09:00-10:00", Room: "CS-201", Students: 48, Type: "Lecture", Status: "upcoming", Date: today},
			{ID: 2, Subject: "Algorithms Lab", Time: "11:00-12:00", Room: "Lab-3", Students: 28, Type: "Lab", Status: "upcoming", Date: today},
			{ID: 3, Subject: "Database Systems", Time: "14:00-15:00", Room: "CS-103", Students: 40, Type: "Lecture", Status: "completed", Date: yesterday},
		},
		Leaves: []Leave{
			{ID: 1, Date: now.Add(5 * day).UTC().Format("2006-01-02"), Reason: "Conference", Status: StatusPending, Type: "professional"},
		},
		Workload: Workload{
			WeeklyHours:  16,
			MonthlyHours: 64,
			Subjects:     4,
			Students:     160,
			Distribution: []SubjectHours{
				{Subject: "Data Structures", Hours: 6, Color: "#3b82f6"},
				{Subject: "Algorithms", Hours: 4, Color: "#10b981"},
				{Subject: "Database Systems", Hours: 4, Color: "#f59e0b"},
				{Subject: "Software Engineering", Hours: 2, Color: "#ef4444"},
			},
		},
	}
}

// NewAttendanceRecord totals the per-subject counts and computes every percentage.
func NewAttendanceRecord(subjects ...SubjectAttendance) AttendanceRecord {
	rec := AttendanceRecord{Subjects: make([]SubjectAttendance, 0, len(subjects))}
	for _, s := range subjects {
		s.Percentage = core.Percent1(float64(s.Present), float64(s.Total))
		rec.Subjects = append(rec.Subjects, s)
		rec.Total += s.Total
		rec.Present += s.Present
	}
	rec.Percentage = core.Percent1(float64(rec.Present), float64(rec.Total))
	return rec
}
