package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/KAILASATEJANI/nam/apps/api/echo"
	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/tests"
)

func getFees(t *testing.T, env *testEnv, studentID string) campus.StudentFees {
	rec := env.do(http.MethodGet, "/api/student/"+studentID+"/fees")
	require.Equal(t, http.StatusOK, rec.Code)
	var fees campus.StudentFees
	unmarshal(t, rec, &fees)
	return fees
}

func Test_feeApi_studentFees(t *testing.T) {
	env := setup(t)

	fees := getFees(t, env, "STU1")
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

	// the catalog is shared, not duplicated per student
	getFees(t, env, "STU2")
	rec := env.do(http.MethodGet, "/api/admin/fee-management")
	var mgmt campus.AdminFeeManagement
	unmarshal(t, rec, &mgmt)
	assert.Len(t, mgmt.FeeStructures, 4)
	assert.Len(t, mgmt.AllTransactions, 4)
}

func Test_feeApi_pay(t *testing.T) {
	env := setup(t)
	before := getFees(t, env, "STU1")

	runHTTPTests(t, env, []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/student/STU1/fees/payment",
			body:     []byte(`{"amount": 5000}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{
				Error: "validation failed",
				Fields: map[string]string{
					"mode":    "this field is required",
					"feeType": "this field is required",
				},
			}),
		},
	})

	rec := env.do(http.MethodPost, "/api/student/STU1/fees/payment", []byte(`{"amount": 5000, "mode": "UPI", "feeType": "Lab"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaymentResponse
	unmarshal(t, rec, &resp)
	assert.True(t, resp.OK)
	assert.Equal(t, 5000.0, resp.Transaction.AmountPaid)
	assert.Equal(t, campus.TxnCompleted, resp.Transaction.Status)
	assert.Equal(t, "TXN"+strconv.FormatInt(testutil.Now.UnixMilli(), 10), resp.Transaction.TransactionID)

	after := getFees(t, env, "STU1")
	assert.Len(t, after.Transactions, len(before.Transactions)+1)
	assert.Equal(t, before.Summary.PendingAmount-5000, after.Summary.PendingAmount)
	assert.Equal(t, before.Summary.TotalPaid+5000, after.Summary.TotalPaid)

	var timeline []campus.LogEntry
	unmarshal(t, env.do(http.MethodGet, "/api/student/STU1/timeline"), &timeline)
	require.Len(t, timeline, 3)
	assert.Equal(t, "Payment of ₹5000 via UPI for Lab", timeline[2].Action)
}

func Test_feeApi_resolveScholarship(t *testing.T) {
	env := setup(t)
	fees := getFees(t, env, "STU1")
	require.Len(t, fees.Scholarships, 1)
	id := fees.Scholarships[0].ID

	resolve := func(ref, action string) *ScholarshipResponse {
		rec := env.do(http.MethodPost, "/api/hod/scholarships/"+ref+"/approve", []byte(`{"action": "`+action+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp ScholarshipResponse
		unmarshal(t, rec, &resp)
		return &resp
	}

	resp := resolve(id, "approved")
	assert.Equal(t, campus.StatusApproved, resp.Scholarship.Status)
	assert.Equal(t, "HOD", resp.Scholarship.ApprovedBy)

	// a resolved scholarship is overwritten
	resp = resolve(id, "reject")
	assert.Equal(t, campus.StatusRejected, resp.Scholarship.Status)
	assert.Equal(t, 0.0, getFees(t, env, "STU1").Summary.TotalScholarship)

	// student ids resolve the first scholarship of the student
	resp = resolve("STU1", "approve")
	assert.Equal(t, id, resp.Scholarship.ID)
	assert.Equal(t, campus.StatusApproved, resp.Scholarship.Status)

	runHTTPTests(t, env, []httpTest{
		{
			name:     "unknown scholarship",
			method:   http.MethodPost,
			path:     "/api/hod/scholarships/nope/approve",
			body:     []byte(`{"action": "approved"}`),
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"error": "not found"}`),
		},
	})

	rec := env.do(http.MethodPost, "/api/hod/scholarships/"+id+"/approve", []byte(`{"action": "maybe"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_feeApi_resolveScholarship_locked(t *testing.T) {
	env := setup(t, func(conf *core.Config) { conf.Fees.LockResolvedScholarships = true })
	fees := getFees(t, env, "STU1")
	id := fees.Scholarships[0].ID

	runHTTPTests(t, env, []httpTest{
		{
			name:     "resolved scholarships are locked",
			method:   http.MethodPost,
			path:     "/api/hod/scholarships/" + id + "/approve",
			body:     []byte(`{"action": "rejected"}`),
			wantCode: http.StatusConflict,
			wantData: []byte(`{"error": "scholarship already resolved"}`),
		},
	})
	assert.Equal(t, campus.StatusApproved, getFees(t, env, "STU1").Scholarships[0].Status)
}

func Test_feeApi_adminFeeManagement(t *testing.T) {
	env := setup(t)

	rec := env.do(http.MethodPost, "/api/admin/fee-structure",
		[]byte(`{"program": "M.Tech", "semester": "1", "feeType": "Tuition", "amount": 70000, "academicYear": "2024-25"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var created FeeStructureResponse
	unmarshal(t, rec, &created)
	assert.True(t, created.OK)
	assert.Equal(t, "M.Tech", created.FeeStructure.Program)
	assert.NotEmpty(t, created.FeeStructure.ID)

	rec = env.do(http.MethodPost, "/api/admin/fee-structure", []byte(`{"program": "M.Tech", "amount": -1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	getFees(t, env, "STU1")

	rec = env.do(http.MethodGet, "/api/admin/fee-management")
	require.Equal(t, http.StatusOK, rec.Code)
	var mgmt campus.AdminFeeManagement
	unmarshal(t, rec, &mgmt)

	assert.Len(t, mgmt.FeeStructures, 5)
	assert.Len(t, mgmt.AllTransactions, 2)
	require.Len(t, mgmt.Analytics.DailyCollection, 7)
	assert.Equal(t, "2024-03-04", mgmt.Analytics.DailyCollection[0].Date)
	assert.Equal(t, "2024-03-10", mgmt.Analytics.DailyCollection[6].Date)
	assert.Equal(t, []campus.PendingFees{
		{FeeType: "Lab", Count: 1, Amount: 5000},
		{FeeType: "Exam", Count: 1, Amount: 3000},
	}, mgmt.Analytics.PendingFeesDistribution)
	assert.Equal(t, campus.BankReconciliation{TotalCollected: 52000, BankDeposits: 52000}, mgmt.Analytics.BankReconciliation)
	assert.Equal(t, 0.0, mgmt.Analytics.RefundsIssued)
}

func Test_feeApi_hodReports(t *testing.T) {
	env := setup(t)
	getFees(t, env, "STU1")

	// an extra fee row leaves the seeded student with a balance
	rec := env.do(http.MethodPost, "/api/admin/fee-structure",
		[]byte(`{"program": "B.Tech", "semester": "5", "feeType": "Hostel", "amount": 10000, "academicYear": "2024-25"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/hod/fee-reports")
	require.Equal(t, http.StatusOK, rec.Code)
	var reports campus.HODFeeReports
	unmarshal(t, rec, &reports)

	assert.Equal(t, campus.DepartmentCollection{CurrentMonth: 0, LastMonth: 52000, Growth: -100}, reports.DepartmentCollection)
	assert.Equal(t, []campus.Defaulter{
		{StudentID: "STU1", Name: "Student STU1", PendingAmount: 8000, DaysOverdue: 0},
	}, reports.DefaultersList)
	assert.Empty(t, reports.ScholarshipRequests)
}

func Test_feeApi_facultyOverview(t *testing.T) {
	env := setup(t)
	getFees(t, env, "STU1")
	getFees(t, env, "STU2")

	rec := env.do(http.MethodGet, "/api/faculty/FAC1/fee-overview")
	require.Equal(t, http.StatusOK, rec.Code)
	var overview campus.FacultyFeeOverview
	unmarshal(t, rec, &overview)

	assert.Equal(t, 2, overview.TotalStudents)
	assert.Equal(t, 0, overview.StudentsWithPendingFees)
	assert.Equal(t, 0.0, overview.PendingAmount)
	assert.Equal(t, 86.7, overview.CollectionRate)
	assert.Len(t, overview.RecentPayments, 4)
}

func Test_feeApi_sendReminders(t *testing.T) {
	env := setup(t)
	getFees(t, env, "STU1")

	runHTTPTests(t, env, []httpTest{
		{
			name:     "reminders due within the window",
			method:   http.MethodPost,
			path:     "/api/admin/fee-reminders/send",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, RemindersResponse{OK: true, Sent: 2}),
		},
		{
			name:     "already sent",
			method:   http.MethodPost,
			path:     "/api/admin/fee-reminders/send",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, RemindersResponse{OK: true, Sent: 0}),
		},
	})

	for _, r := range getFees(t, env, "STU1").DueReminders {
		assert.True(t, r.ReminderSent)
	}
}
