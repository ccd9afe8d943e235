// Package storetest holds the behaviour every campus.Store implementation must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core/campus"
)

// Run runs the shared store tests. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) campus.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, db campus.Store)
	}{
		{name: "empty defaults", fn: testEmptyDefaults},
		{name: "people", fn: testPeople},
		{name: "documents", fn: testDocuments},
		{name: "insertion order", fn: testInsertionOrder},
		{name: "fee filters", fn: testFeeFilters},
		{name: "update scholarship", fn: testUpdateScholarship},
		{name: "due reminders", fn: testDueReminders},
		{name: "leaves", fn: testLeaves},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

var ts = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func testEmptyDefaults(t *testing.T, db campus.Store) {
	ctx := context.Background()

	_, found, err := db.GetStudent(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = db.GetFaculty(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)

	week, err := db.GetTimetable(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, campus.EmptyWeek(), week)

	rec, err := db.GetAttendance(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, campus.EmptyAttendance(), rec)

	w, err := db.GetWorkload(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, campus.EmptyWorkload(), w)

	classes, err := db.GetFacultySchedule(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)

	logs, err := db.ListLogs(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)

	leaves, err := db.ListLeaves(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, leaves)

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, students)
}

func testPeople(t *testing.T, db campus.Store) {
	ctx := context.Background()
	st := campus.Student{StudentID: "S1", Name: "Student S1", Email: "s1@example.com", Department: "CS", Semester: "5", Program: "B.Tech"}
	require.NoError(t, db.CreateStudent(ctx, st))
	f := campus.Faculty{FacultyID: "F1", Name: "Prof. Smith", Email: "smith@example.com", Department: "CS", Designation: "Professor"}
	require.NoError(t, db.CreateFaculty(ctx, f))

	dup := st
	dup.Name = "Someone else"
	assert.ErrorIs(t, db.CreateStudent(ctx, dup), campus.ErrDuplicate)
	assert.ErrorIs(t, db.CreateFaculty(ctx, f), campus.ErrDuplicate)

	got, found, err := db.GetStudent(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, st, got)

	gotF, found, err := db.GetFaculty(ctx, "F1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, f, gotF)

	list, err := db.ListStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []campus.Student{st}, list)
}

func testDocuments(t *testing.T, db campus.Store) {
	ctx := context.Background()

	week := campus.EmptyWeek()
	week["monday"] = []campus.ClassSlot{{Time: "09:00-10:00", Subject: "Algorithms", Faculty: "Dr. X", Room: "CS-101", Type: "Lecture"}}
	require.NoError(t, db.SetTimetable(ctx, "S1", week))
	week["monday"] = append(week["monday"], campus.ClassSlot{Subject: "Databases"})
	require.NoError(t, db.SetTimetable(ctx, "S1", week)) // replaces

	gotWeek, err := db.GetTimetable(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, gotWeek["monday"], 2)
	assert.Equal(t, []campus.ClassSlot{}, gotWeek["friday"])

	rec := campus.NewAttendanceRecord(campus.SubjectAttendance{Name: "Algorithms", Present: 18, Total: 20})
	require.NoError(t, db.SetAttendance(ctx, "S1", rec))
	gotRec, err := db.GetAttendance(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, rec, gotRec)

	classes := []campus.FacultyClass{{ID: 1, Subject: "Algorithms", Students: 40, Date: "2024-03-10"}}
	require.NoError(t, db.SetFacultySchedule(ctx, "F1", classes))
	gotClasses, err := db.GetFacultySchedule(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, classes, gotClasses)

	w := campus.Workload{WeeklyHours: 16, Distribution: []campus.SubjectHours{{Subject: "Algorithms", Hours: 4, Color: "#10b981"}}}
	require.NoError(t, db.SetWorkload(ctx, "F1", w))
	gotW, err := db.GetWorkload(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, w, gotW)
}

func testInsertionOrder(t *testing.T, db campus.Store) {
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, db.AddLog(ctx, campus.LogEntry{ID: id, StudentID: "S1", Action: "did " + id, CreatedAt: ts}))
	}
	require.NoError(t, db.AddLog(ctx, campus.LogEntry{ID: "x", StudentID: "S2", Action: "other", CreatedAt: ts}))

	logs, err := db.ListLogs(ctx, "S1")
	require.NoError(t, err)
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.True(t, ts.Equal(logs[0].CreatedAt))

	at := ts.Add(time.Hour)
	require.NoError(t, db.AddAssignment(ctx, campus.Assignment{
		ID: "a1", StudentID: "S1", Title: "Lab", DueDate: ts, Status: campus.AssignmentSubmitted, SubmittedAt: &at, FileName: "lab.pdf",
	}))
	require.NoError(t, db.AddAssignment(ctx, campus.Assignment{ID: "a2", StudentID: "S1", Title: "HW", DueDate: ts, Status: campus.AssignmentPending}))
	list, err := db.ListAssignments(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].SubmittedAt)
	assert.True(t, at.Equal(*list[0].SubmittedAt))
	assert.Equal(t, "lab.pdf", list[0].FileName)
	assert.Nil(t, list[1].SubmittedAt)
}

func testFeeFilters(t *testing.T, db campus.Store) {
	ctx := context.Background()
	require.NoError(t, db.AddFeeStructure(ctx, campus.FeeStructure{ID: "f1", Program: "B.Tech", Semester: "5", FeeType: "Tuition", Amount: 50000, AcademicYear: "2024-25"}))
	require.NoError(t, db.AddFeeStructure(ctx, campus.FeeStructure{ID: "f2", Program: "B.Tech", Semester: "6", FeeType: "Tuition", Amount: 50000, AcademicYear: "2024-25"}))
	require.NoError(t, db.AddFeeStructure(ctx, campus.FeeStructure{ID: "f3", Program: "MBA", Semester: "5", FeeType: "Tuition", Amount: 90000, AcademicYear: "2024-25"}))

	fees, err := db.ListFeeStructures(ctx, "B.Tech", "5")
	require.NoError(t, err)
	assert.Len(t, fees, 1)
	fees, err = db.ListFeeStructures(ctx, "", "5")
	require.NoError(t, err)
	assert.Len(t, fees, 2)
	fees, err = db.ListFeeStructures(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, fees, 3)

	require.NoError(t, db.AddTransaction(ctx, campus.Transaction{ID: "t1", StudentID: "S1", AmountPaid: 100, Date: ts, Status: campus.TxnCompleted}))
	require.NoError(t, db.AddTransaction(ctx, campus.Transaction{ID: "t2", StudentID: "S2", AmountPaid: 200, Date: ts, Status: campus.TxnCompleted}))
	txns, err := db.ListTransactions(ctx, "S2")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, 200.0, txns[0].AmountPaid)
	txns, err = db.ListTransactions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	require.NoError(t, db.AddScholarship(ctx, campus.Scholarship{ID: "s1", StudentID: "S1", Status: campus.StatusPending, CreatedAt: ts}))
	require.NoError(t, db.AddScholarship(ctx, campus.Scholarship{ID: "s2", StudentID: "S2", Status: campus.StatusApproved, CreatedAt: ts}))

	tests := []struct {
		name    string
		filter  campus.ScholarshipFilter
		wantIDs []string
	}{
		{name: "all", wantIDs: []string{"s1", "s2"}},
		{name: "by id", filter: campus.ScholarshipFilter{ID: "s2"}, wantIDs: []string{"s2"}},
		{name: "by student", filter: campus.ScholarshipFilter{StudentID: "S1"}, wantIDs: []string{"s1"}},
		{name: "by status", filter: campus.ScholarshipFilter{Status: campus.StatusPending}, wantIDs: []string{"s1"}},
		{name: "no match", filter: campus.ScholarshipFilter{ID: "s2", Status: campus.StatusPending}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := db.ListScholarships(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0)
			for _, s := range list {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func testUpdateScholarship(t *testing.T, db campus.Store) {
	ctx := context.Background()
	require.NoError(t, db.AddScholarship(ctx, campus.Scholarship{
		ID: "s1", StudentID: "S1", DiscountType: "Merit", Amount: 10000, Status: campus.StatusPending, CreatedAt: ts,
	}))

	require.NoError(t, db.UpdateScholarship(ctx, campus.Scholarship{ID: "s1", Status: campus.StatusRejected, ApprovedBy: "HOD"}))
	list, err := db.ListScholarships(ctx, campus.ScholarshipFilter{ID: "s1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, campus.StatusRejected, list[0].Status)
	assert.Equal(t, "HOD", list[0].ApprovedBy)
	assert.Equal(t, "Merit", list[0].DiscountType)
	assert.Equal(t, 10000.0, list[0].Amount)
	assert.True(t, ts.Equal(list[0].CreatedAt))

	assert.Equal(t, campus.ErrNotFound, db.UpdateScholarship(ctx, campus.Scholarship{ID: "nope", Status: campus.StatusApproved}))
}

func testDueReminders(t *testing.T, db campus.Store) {
	ctx := context.Background()
	require.NoError(t, db.AddDueReminder(ctx, campus.DueReminder{ID: "r1", StudentID: "S1", DueDate: ts, Amount: 5000, FeeType: "Lab"}))
	require.NoError(t, db.AddDueReminder(ctx, campus.DueReminder{ID: "r2", StudentID: "S1", DueDate: ts, ReminderSent: true, Amount: 3000, FeeType: "Exam"}))
	require.NoError(t, db.AddDueReminder(ctx, campus.DueReminder{ID: "r3", StudentID: "S2", DueDate: ts, Amount: 3000, FeeType: "Exam"}))

	all, err := db.ListDueReminders(ctx, campus.ReminderFilter{StudentID: "S1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unsent, err := db.ListDueReminders(ctx, campus.ReminderFilter{UnsentOnly: true})
	require.NoError(t, err)
	assert.Len(t, unsent, 2)

	require.NoError(t, db.MarkDueReminderSent(ctx, "r1"))
	unsent, err = db.ListDueReminders(ctx, campus.ReminderFilter{StudentID: "S1", UnsentOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unsent)

	assert.Equal(t, campus.ErrNotFound, db.MarkDueReminderSent(ctx, "nope"))
}

func testLeaves(t *testing.T, db campus.Store) {
	ctx := context.Background()
	require.NoError(t, db.AddLeave(ctx, "F1", campus.Leave{ID: 1, Date: "2024-03-15", Reason: "Conference", Status: campus.StatusPending, Type: "professional"}))
	require.NoError(t, db.AddLeave(ctx, "F1", campus.Leave{ID: 2, Date: "2024-03-20", Reason: "Sick", Status: campus.StatusPending, Type: "medical"}))
	require.NoError(t, db.AddLeave(ctx, "F2", campus.Leave{ID: 1, Date: "2024-03-21", Reason: "Other", Status: campus.StatusPending, Type: "personal"}))

	leaves, err := db.ListLeaves(ctx, "F1")
	require.NoError(t, err)
	require.Len(t, leaves, 2)
	assert.Equal(t, int64(1), leaves[0].ID)
	assert.Equal(t, "medical", leaves[1].Type)
}
