package campus_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/services/email"
	"github.com/KAILASATEJANI/nam/storage/database/inmem"
	"github.com/KAILASATEJANI/nam/tests"
)

func TestService_EnsureStudent(t *testing.T) {
	svc, db := testutil.NewService(t, core.NewTestConfig(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := svc.EnsureStudent(ctx, "STU1")
			assert.NoError(t, err)
			assert.Equal(t, "Student STU1", st.Name)
		}()
	}
	wg.Wait()

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	assignments, err := db.ListAssignments(ctx, "STU1")
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	logs, err := db.ListLogs(ctx, "STU1")
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	st := students[0]
	assert.Equal(t, "stu1@example.com", st.Email)
	assert.Equal(t, "B.Tech", st.Program)
	assert.Equal(t, "5", st.Semester)
}

func TestService_feeCatalogSeededOnce(t *testing.T) {
	svc, db := testutil.NewService(t, core.NewTestConfig(), nil)
	ctx := context.Background()

	for _, id := range []string{"STU1", "STU2", "STU3"} {
		_, err := svc.EnsureStudent(ctx, id)
		require.NoError(t, err)
	}

	rows, err := db.ListFeeStructures(ctx, "B.Tech", "5")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var total float64
	for _, r := range rows {
		total += r.Amount
	}
	assert.Equal(t, 60000.0, total)
}

func TestService_StudentFees(t *testing.T) {
	svc, _ := testutil.NewService(t, core.NewTestConfig(), nil)
	ctx := context.Background()

	fees, err := svc.StudentFees(ctx, "STU1")
	require.NoError(t, err)
	assert.Len(t, fees.FeeStructure, 4)
	assert.Len(t, fees.Transactions, 2)
	assert.Len(t, fees.Scholarships, 1)
	assert.Len(t, fees.DueReminders, 2)
	assert.Equal(t, campus.FeeSummary{
		TotalFee:         60000,
		TotalPaid:        52000,
		TotalScholarship: 10000,
		PendingAmount:    -2000,
		PaidPercentage:   87,
	}, fees.Summary)
}

func TestSummarize(t *testing.T) {
	catalog := []campus.FeeStructure{{Amount: 1000}, {Amount: 2000}}

	tests := []struct {
		name         string
		catalog      []campus.FeeStructure
		txns         []campus.Transaction
		scholarships []campus.Scholarship
		want         campus.FeeSummary
	}{
		{name: "nothing", want: campus.FeeSummary{}},
		{
			name:    "no payment",
			catalog: catalog,
			want:    campus.FeeSummary{TotalFee: 3000, PendingAmount: 3000},
		},
		{
			name:    "half rounds up",
			catalog: []campus.FeeStructure{{Amount: 800}},
			txns:    []campus.Transaction{{AmountPaid: 100}},
			want:    campus.FeeSummary{TotalFee: 800, TotalPaid: 100, PendingAmount: 700, PaidPercentage: 13},
		},
		{
			name:    "only approved scholarships count",
			catalog: catalog,
			txns:    []campus.Transaction{{AmountPaid: 1000}},
			scholarships: []campus.Scholarship{
				{Amount: 500, Status: campus.StatusApproved},
				{Amount: 700, Status: campus.StatusPending},
				{Amount: 900, Status: campus.StatusRejected},
			},
			want: campus.FeeSummary{TotalFee: 3000, TotalPaid: 1000, TotalScholarship: 500, PendingAmount: 1500, PaidPercentage: 33},
		},
		{
			name:    "overpaid",
			catalog: catalog,
			txns:    []campus.Transaction{{AmountPaid: 3000}, {AmountPaid: 500}},
			want:    campus.FeeSummary{TotalFee: 3000, TotalPaid: 3500, PendingAmount: -500, PaidPercentage: 117},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, campus.Summarize(tt.catalog, tt.txns, tt.scholarships))
		})
	}
}

func TestService_RecordPayment(t *testing.T) {
	rec := new(testutil.Recorder)
	svc, _ := testutil.NewService(t, core.NewTestConfig(), rec)
	ctx := context.Background()

	txn, err := svc.RecordPayment(ctx, "STU1", campus.NewPayment{Amount: 1500, Mode: "UPI", FeeType: "Lab"})
	require.NoError(t, err)
	assert.Equal(t, campus.TxnCompleted, txn.Status)
	assert.Equal(t, testutil.Now, txn.Date)
	assert.Equal(t, "TXN1710063000000", txn.TransactionID)

	published := rec.Entries()
	require.Len(t, published, 1)
	assert.Equal(t, "STU1", published[0].StudentID)
	assert.Equal(t, "Payment of ₹1500 via UPI for Lab", published[0].Action)

	timeline, err := svc.Timeline(ctx, "STU1")
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, published[0], timeline[2])

	fees, err := svc.StudentFees(ctx, "STU1")
	require.NoError(t, err)
	assert.Equal(t, 53500.0, fees.Summary.TotalPaid)
	assert.Equal(t, -3500.0, fees.Summary.PendingAmount)
}

func TestService_mutationsPublish(t *testing.T) {
	rec := new(testutil.Recorder)
	svc, _ := testutil.NewService(t, core.NewTestConfig(), rec)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "STU1", campus.NewBooking{ResourceType: "Lab", Room: "L1", Date: "2024-03-12", TimeSlot: "10:00-11:00"})
	require.NoError(t, err)
	_, err = svc.SubmitAssignment(ctx, "STU1", campus.NewSubmission{FileName: "hw4.pdf"})
	require.NoError(t, err)

	// feedback & reads never publish
	_, err = svc.SubmitFeedback(ctx, "STU1", campus.NewFeedback{Rating: 4, Comment: "ok"})
	require.NoError(t, err)
	_, err = svc.Timetable(ctx, "STU2")
	require.NoError(t, err)

	published := rec.Entries()
	require.Len(t, published, 2)
	assert.Equal(t, "Requested booking for Lab L1 on 2024-03-12 10:00-11:00", published[0].Action)
	assert.Equal(t, "Submitted assignment: hw4.pdf", published[1].Action)
	for _, e := range published {
		assert.Equal(t, "STU1", e.StudentID)
	}
}

func TestService_ResolveScholarship(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites", func(t *testing.T) {
		rec := new(testutil.Recorder)
		svc, _ := testutil.NewService(t, core.NewTestConfig(), rec)
		fees, err := svc.StudentFees(ctx, "STU1")
		require.NoError(t, err)
		id := fees.Scholarships[0].ID

		s, err := svc.ResolveScholarship(ctx, id, campus.ScholarshipDecision{Action: campus.StatusRejected})
		require.NoError(t, err)
		assert.Equal(t, campus.StatusRejected, s.Status)
		assert.Equal(t, "HOD", s.ApprovedBy)

		// by student id
		s, err = svc.ResolveScholarship(ctx, "STU1", campus.ScholarshipDecision{Action: campus.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, campus.StatusApproved, s.Status)

		published := rec.Entries()
		require.Len(t, published, 2)
		assert.Equal(t, "Scholarship Merit rejected by HOD", published[0].Action)
	})

	t.Run("unknown", func(t *testing.T) {
		svc, _ := testutil.NewService(t, core.NewTestConfig(), nil)
		_, err := svc.ResolveScholarship(ctx, "NOPE", campus.ScholarshipDecision{Action: campus.StatusApproved})
		assert.ErrorIs(t, err, campus.ErrNotFound)
	})

	t.Run("locked", func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Fees.LockResolvedScholarships = true
		svc, db := testutil.NewService(t, conf, nil)
		_, err := svc.EnsureStudent(ctx, "STU1")
		require.NoError(t, err)

		// seeded scholarship is already approved
		_, err = svc.ResolveScholarship(ctx, "STU1", campus.ScholarshipDecision{Action: campus.StatusRejected})
		assert.ErrorIs(t, err, campus.ErrAlreadyResolved)

		pending := campus.Scholarship{ID: "SCH2", StudentID: "STU9", DiscountType: "Need", Amount: 500, Status: campus.StatusPending}
		require.NoError(t, db.AddScholarship(ctx, pending))
		s, err := svc.ResolveScholarship(ctx, "SCH2", campus.ScholarshipDecision{Action: campus.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, campus.StatusApproved, s.Status)

		_, err = svc.ResolveScholarship(ctx, "SCH2", campus.ScholarshipDecision{Action: campus.StatusRejected})
		assert.ErrorIs(t, err, campus.ErrAlreadyResolved)
	})
}

func TestService_SendDueReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("window", func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Reminders.Window = 10 * 24 * time.Hour
		svc, db := testutil.NewService(t, conf, nil)
		emailsvc.ResetSentMessages()

		_, err := svc.EnsureStudent(ctx, "STU1")
		require.NoError(t, err)

		sent, err := svc.SendDueReminders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sent) // the exam fee falls due after the window

		unsent, err := db.ListDueReminders(ctx, campus.ReminderFilter{UnsentOnly: true})
		require.NoError(t, err)
		require.Len(t, unsent, 1)
		assert.Equal(t, "Exam", unsent[0].FeeType)
	})

	t.Run("one email per student", func(t *testing.T) {
		svc, _ := testutil.NewService(t, core.NewTestConfig(), nil)
		emailsvc.ResetSentMessages()

		for _, id := range []string{"STU1", "STU2"} {
			_, err := svc.EnsureStudent(ctx, id)
			require.NoError(t, err)
		}

		sent, err := svc.SendDueReminders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, sent)

		msgs := emailsvc.Sent()
		require.Len(t, msgs, 2)
		assert.Equal(t, "stu1@example.com", msgs[0].To[0].Address)
		assert.Contains(t, msgs[0].TextContent, "Total due: 8000.00")

		sent, err = svc.SendDueReminders(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Len(t, emailsvc.Sent(), 2)
	})
}

func TestService_RequestLeave(t *testing.T) {
	svc, _ := testutil.NewService(t, core.NewTestConfig(), nil)
	ctx := context.Background()

	leaves, err := svc.Leaves(ctx, "FAC1")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "2024-03-15", leaves[0].Date)

	nl := campus.NewLeave{Date: "2024-04-01", Reason: "Workshop"}
	first, err := svc.RequestLeave(ctx, "FAC1", nl)
	require.NoError(t, err)
	second, err := svc.RequestLeave(ctx, "FAC1", nl)
	require.NoError(t, err)

	assert.Equal(t, testutil.Now.UnixMilli(), first.ID)
	assert.Equal(t, first.ID+1, second.ID)
	assert.Equal(t, "personal", first.Type)
	assert.Equal(t, campus.StatusPending, first.Status)

	leaves, err = svc.Leaves(ctx, "FAC1")
	require.NoError(t, err)
	assert.Len(t, leaves, 3)
}

func TestService_unknownIDsAreSeeded(t *testing.T) {
	svc, _ := testutil.NewService(t, core.NewTestConfig(), nil)
	ctx := context.Background()

	week, err := svc.Timetable(ctx, "NEW")
	require.NoError(t, err)
	for _, day := range campus.Weekdays {
		assert.Contains(t, week, day)
	}
	assert.Len(t, week["monday"], 2)

	rec, err := svc.Attendance(ctx, "NEW")
	require.NoError(t, err)
	assert.Equal(t, 57, rec.Present)
	assert.Equal(t, 62, rec.Total)
	assert.Equal(t, 91.9, rec.Percentage)

	w, err := svc.FacultyWorkload(ctx, "FNEW")
	require.NoError(t, err)
	assert.Equal(t, 16, w.WeeklyHours)
	assert.Len(t, w.Distribution, 4)
}

// flakyMarks fails every MarkDueReminderSent call past the first `ok` ones.
type flakyMarks struct {
	*inmemdb.DB
	ok    int
	calls int
}

func (s *flakyMarks) MarkDueReminderSent(ctx context.Context, id string) error {
	s.calls++
	if s.calls > s.ok {
		return errors.New("connection reset")
	}
	return s.DB.MarkDueReminderSent(ctx, id)
}

func TestService_SendDueReminders_markFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyMarks{DB: inmemdb.Open(), ok: 2}
	svc := testutil.NewServiceWithStore(t, core.NewTestConfig(), store, nil)
	emailsvc.ResetSentMessages()

	for _, id := range []string{"A1", "B2"} {
		_, err := svc.EnsureStudent(ctx, id)
		require.NoError(t, err)
	}

	// fails on the first reminder of B2
	sent, err := svc.SendDueReminders(ctx)
	assert.Error(t, err)
	assert.Equal(t, 2, sent)

	emailed := make(map[string]bool)
	for _, msg := range emailsvc.Sent() {
		emailed[msg.To[0].Address] = true
	}
	assert.True(t, emailed["a1@example.com"])

	all, err := store.ListDueReminders(ctx, campus.ReminderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for _, r := range all {
		if r.ReminderSent {
			assert.True(t, emailed[strings.ToLower(r.StudentID)+"@example.com"], "reminder %s marked without an email", r.ID)
		}
	}

	unsent, err := store.ListDueReminders(ctx, campus.ReminderFilter{UnsentOnly: true})
	require.NoError(t, err)
	require.Len(t, unsent, 2)
	for _, r := range unsent {
		assert.Equal(t, "B2", r.StudentID)
	}

	// the store recovers: B2 is reminded on the next run
	store.ok = 100
	sent, err = svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	unsent, err = store.ListDueReminders(ctx, campus.ReminderFilter{UnsentOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unsent)
}

// staleReads misses people on its first `misses` lookups, as an instance racing another one over a shared store does.
type staleReads struct {
	*inmemdb.DB
	misses int
}

func (s *staleReads) GetStudent(ctx context.Context, id string) (campus.Student, bool, error) {
	if s.misses > 0 {
		s.misses--
		return campus.Student{}, false, nil
	}
	return s.DB.GetStudent(ctx, id)
}

func (s *staleReads) GetFaculty(ctx context.Context, id string) (campus.Faculty, bool, error) {
	if s.misses > 0 {
		s.misses--
		return campus.Faculty{}, false, nil
	}
	return s.DB.GetFaculty(ctx, id)
}

func TestService_seededByAnotherInstance(t *testing.T) {
	ctx := context.Background()
	store := &staleReads{DB: inmemdb.Open()}
	svc := testutil.NewServiceWithStore(t, core.NewTestConfig(), store, nil)

	existing := campus.Student{StudentID: "STU1", Name: "Existing", Program: "B.Tech", Semester: "5"}
	require.NoError(t, store.DB.CreateStudent(ctx, existing))
	store.misses = 2 // both lookups before seeding

	st, err := svc.EnsureStudent(ctx, "STU1")
	require.NoError(t, err)
	assert.Equal(t, existing, st)

	students, err := store.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	existingF := campus.Faculty{FacultyID: "FAC1", Name: "Existing"}
	require.NoError(t, store.DB.CreateFaculty(ctx, existingF))
	store.misses = 2

	f, err := svc.EnsureFaculty(ctx, "FAC1")
	require.NoError(t, err)
	assert.Equal(t, existingF, f)
}
