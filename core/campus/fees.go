package campus

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
)

const (
	recentPaymentsLimit = 5
	dailyCollectionDays = 7
	approver            = "HOD"
)

// roundHalfUp rounds halves towards +Inf.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StudentFees returns the fee rows matching the student's program & semester, their payments,
// scholarships and reminders along with the summary computed from them.
func (svc *Service) StudentFees(ctx context.Context, studentID string) (StudentFees, error) {
	st, err := svc.EnsureStudent(ctx, studentID)
	if err != nil {
		return StudentFees{}, err
	}

	var fees StudentFees
	if fees.FeeStructure, err = svc.store.ListFeeStructures(ctx, st.Program, st.Semester); err != nil {
		return StudentFees{}, errors.Wrap(err, "listing fee structures")
	}
	if fees.Transactions, err = svc.store.ListTransactions(ctx, studentID); err != nil {
		return StudentFees{}, errors.Wrap(err, "listing transactions")
	}
	if fees.Scholarships, err = svc.store.ListScholarships(ctx, ScholarshipFilter{StudentID: studentID}); err != nil {
		return StudentFees{}, errors.Wrap(err, "listing scholarships")
	}
	if fees.DueReminders, err = svc.store.ListDueReminders(ctx, ReminderFilter{StudentID: studentID}); err != nil {
		return StudentFees{}, errors.Wrap(err, "listing due reminders")
	}
	fees.Summary = Summarize(fees.FeeStructure, fees.Transactions, fees.Scholarships)
	return fees, nil
}

// RecordPayment stores a completed payment and a timeline entry for it.
func (svc *Service) RecordPayment(ctx context.Context, studentID string, np NewPayment) (Transaction, error) {
	if _, err := svc.EnsureStudent(ctx, studentID); err != nil {
		return Transaction{}, err
	}

	now := svc.now()
	t := Transaction{
		ID:            svc.newID(),
		StudentID:     studentID,
		AmountPaid:    np.Amount,
		Date:          now,
		Mode:          np.Mode,
		ReceiptURL:    "#",
		Status:        TxnCompleted,
		FeeType:       np.FeeType,
		TransactionID: "TXN" + strconv.FormatInt(now.UnixMilli(), 10),
	}
	if err := svc.store.AddTransaction(ctx, t); err != nil {
		return Transaction{}, errors.Wrap(err, "adding transaction")
	}

	action := fmt.Sprintf("Payment of ₹%s via %s for %s", formatAmount(t.AmountPaid), t.Mode, t.FeeType)
	if _, err := svc.appendLog(ctx, studentID, action); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

// ResolveScholarship approves or rejects a scholarship. `ref` is a scholarship id or,
// failing that, the id of the student whose first scholarship is resolved.
func (svc *Service) ResolveScholarship(ctx context.Context, ref string, sd ScholarshipDecision) (Scholarship, error) {
	s, err := svc.findScholarship(ctx, ref)
	if err != nil {
		return Scholarship{}, err
	}
	if svc.conf.Fees.LockResolvedScholarships && s.Status != StatusPending {
		return Scholarship{}, ErrAlreadyResolved
	}

	s.Status = sd.Action
	s.ApprovedBy = approver
	if err = svc.store.UpdateScholarship(ctx, s); err != nil {
		return Scholarship{}, errors.Wrap(err, "updating scholarship")
	}

	action := fmt.Sprintf("Scholarship %s %s by %s", s.DiscountType, s.Status, approver)
	if _, err = svc.appendLog(ctx, s.StudentID, action); err != nil {
		return Scholarship{}, err
	}
	return s, nil
}

func (svc *Service) findScholarship(ctx context.Context, ref string) (Scholarship, error) {
	list, err := svc.store.ListScholarships(ctx, ScholarshipFilter{ID: ref})
	if err != nil {
		return Scholarship{}, errors.Wrap(err, "listing scholarships")
	}
	if len(list) == 0 {
		if list, err = svc.store.ListScholarships(ctx, ScholarshipFilter{StudentID: ref}); err != nil {
			return Scholarship{}, errors.Wrap(err, "listing scholarships")
		}
	}
	if len(list) == 0 {
		return Scholarship{}, ErrNotFound
	}
	return list[0], nil
}

func (svc *Service) AddFeeStructure(ctx context.Context, nf NewFeeStructure) (FeeStructure, error) {
	f := FeeStructure{
		ID:           svc.newID(),
		Program:      nf.Program,
		Semester:     nf.Semester,
		FeeType:      nf.FeeType,
		Amount:       nf.Amount,
		AcademicYear: nf.AcademicYear,
	}
	return f, errors.Wrap(svc.store.AddFeeStructure(ctx, f), "adding fee structure")
}

type studentBalance struct {
	student Student
	summary FeeSummary
}

// balances computes the fee summary of every known student in one pass over the collections.
func (svc *Service) balances(ctx context.Context) ([]studentBalance, []Transaction, error) {
	students, err := svc.store.ListStudents(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing students")
	}
	catalog, err := svc.store.ListFeeStructures(ctx, "", "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing fee structures")
	}
	txns, err := svc.store.ListTransactions(ctx, "")
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing transactions")
	}
	scholarships, err := svc.store.ListScholarships(ctx, ScholarshipFilter{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "listing scholarships")
	}

	catalogByKey := make(map[string][]FeeStructure)
	for _, f := range catalog {
		key := f.Program + "|" + f.Semester
		catalogByKey[key] = append(catalogByKey[key], f)
	}
	txnsByStudent := make(map[string][]Transaction)
	for _, t := range txns {
		txnsByStudent[t.StudentID] = append(txnsByStudent[t.StudentID], t)
	}
	schByStudent := make(map[string][]Scholarship)
	for _, s := range scholarships {
		schByStudent[s.StudentID] = append(schByStudent[s.StudentID], s)
	}

	out := make([]studentBalance, 0, len(students))
	for _, st := range students {
		out = append(out, studentBalance{
			student: st,
			summary: Summarize(
				catalogByKey[st.Program+"|"+st.Semester],
				txnsByStudent[st.StudentID],
				schByStudent[st.StudentID],
			),
		})
	}
	return out, txns, nil
}

func (svc *Service) FacultyFeeOverview(ctx context.Context, facultyID string) (FacultyFeeOverview, error) {
	if _, err := svc.EnsureFaculty(ctx, facultyID); err != nil {
		return FacultyFeeOverview{}, err
	}
	balances, txns, err := svc.balances(ctx)
	if err != nil {
		return FacultyFeeOverview{}, err
	}

	overview := FacultyFeeOverview{TotalStudents: len(balances)}
	var totalFee, totalPaid float64
	for _, b := range balances {
		totalFee += b.summary.TotalFee
		totalPaid += b.summary.TotalPaid
		if b.summary.PendingAmount > 0 {
			overview.StudentsWithPendingFees++
			overview.PendingAmount += b.summary.PendingAmount
		}
	}
	overview.CollectionRate = core.Percent1(totalPaid, totalFee)

	recent := make([]Transaction, len(txns))
	copy(recent, txns)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentPaymentsLimit {
		recent = recent[:recentPaymentsLimit]
	}
	overview.RecentPayments = make([]RecentPayment, 0, len(recent))
	for _, t := range recent {
		overview.RecentPayments = append(overview.RecentPayments, RecentPayment{
			StudentID: t.StudentID,
			Amount:    t.AmountPaid,
			Date:      t.Date,
			FeeType:   t.FeeType,
		})
	}
	return overview, nil
}

func (svc *Service) HODFeeReports(ctx context.Context) (HODFeeReports, error) {
	balances, txns, err := svc.balances(ctx)
	if err != nil {
		return HODFeeReports{}, err
	}
	reminders, err := svc.store.ListDueReminders(ctx, ReminderFilter{UnsentOnly: true})
	if err != nil {
		return HODFeeReports{}, errors.Wrap(err, "listing due reminders")
	}
	requests, err := svc.store.ListScholarships(ctx, ScholarshipFilter{Status: StatusPending})
	if err != nil {
		return HODFeeReports{}, errors.Wrap(err, "listing scholarships")
	}

	now := svc.now()
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastStart := curStart.AddDate(0, -1, 0)
	var coll DepartmentCollection
	for _, t := range txns {
		if t.Status != TxnCompleted {
			continue
		}
		switch {
		case !t.Date.Before(curStart):
			coll.CurrentMonth += t.AmountPaid
		case !t.Date.Before(lastStart):
			coll.LastMonth += t.AmountPaid
		}
	}
	coll.Growth = core.Percent1(coll.CurrentMonth-coll.LastMonth, coll.LastMonth)

	// oldest past-due unsent reminder per student
	oldestDue := make(map[string]time.Time)
	for _, r := range reminders {
		if !r.DueDate.Before(now) {
			continue
		}
		if d, ok := oldestDue[r.StudentID]; !ok || r.DueDate.Before(d) {
			oldestDue[r.StudentID] = r.DueDate
		}
	}

	defaulters := make([]Defaulter, 0)
	for _, b := range balances {
		if b.summary.PendingAmount <= 0 {
			continue
		}
		var overdue int
		if d, ok := oldestDue[b.student.StudentID]; ok {
			overdue = int(now.Sub(d) / day)
		}
		defaulters = append(defaulters, Defaulter{
			StudentID:     b.student.StudentID,
			Name:          b.student.Name,
			PendingAmount: b.summary.PendingAmount,
			DaysOverdue:   overdue,
		})
	}

	return HODFeeReports{
		DepartmentCollection: coll,
		DefaultersList:       defaulters,
		ScholarshipRequests:  requests,
	}, nil
}

func (svc *Service) AdminFeeManagement(ctx context.Context) (AdminFeeManagement, error) {
	catalog, err := svc.store.ListFeeStructures(ctx, "", "")
	if err != nil {
		return AdminFeeManagement{}, errors.Wrap(err, "listing fee structures")
	}
	txns, err := svc.store.ListTransactions(ctx, "")
	if err != nil {
		return AdminFeeManagement{}, errors.Wrap(err, "listing transactions")
	}
	reminders, err := svc.store.ListDueReminders(ctx, ReminderFilter{UnsentOnly: true})
	if err != nil {
		return AdminFeeManagement{}, errors.Wrap(err, "listing due reminders")
	}

	now := svc.now()
	var analytics FeeAnalytics

	// last 7 days, oldest first
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daily := make(map[string]float64, dailyCollectionDays)
	analytics.DailyCollection = make([]DailyCollection, 0, dailyCollectionDays)
	for i := dailyCollectionDays - 1; i >= 0; i-- {
		analytics.DailyCollection = append(analytics.DailyCollection, DailyCollection{
			Date: today.AddDate(0, 0, -i).Format("2006-01-02"),
		})
	}

	for _, t := range txns {
		switch t.Status {
		case TxnCompleted:
			analytics.BankReconciliation.TotalCollected += t.AmountPaid
			daily[t.Date.UTC().Format("2006-01-02")] += t.AmountPaid
		case TxnRefunded:
			analytics.RefundsIssued += t.AmountPaid
		}
	}
	for i := range analytics.DailyCollection {
		analytics.DailyCollection[i].Amount = daily[analytics.DailyCollection[i].Date]
	}
	// no deposit records: everything collected counts as deposited
	analytics.BankReconciliation.BankDeposits = analytics.BankReconciliation.TotalCollected

	analytics.PendingFeesDistribution = make([]PendingFees, 0)
	idx := make(map[string]int)
	for _, r := range reminders {
		i, ok := idx[r.FeeType]
		if !ok {
			i = len(analytics.PendingFeesDistribution)
			idx[r.FeeType] = i
			analytics.PendingFeesDistribution = append(analytics.PendingFeesDistribution, PendingFees{FeeType: r.FeeType})
		}
		analytics.PendingFeesDistribution[i].Count++
		analytics.PendingFeesDistribution[i].Amount += r.Amount
	}

	return AdminFeeManagement{
		FeeStructures:   catalog,
		AllTransactions: txns,
		Analytics:       analytics,
	}, nil
}
