package pgdb

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/KAILASATEJANI/nam/core/campus"
)

type (
	studentRow struct {
		StudentID  string `db:"student_id"`
		Name       string `db:"name"`
		Email      string `db:"email"`
		Department string `db:"department"`
		Semester   string `db:"semester"`
		Program    string `db:"program"`
	}

	assignmentRow struct {
		ID          string      `db:"id"`
		StudentID   string      `db:"student_id"`
		Title       string      `db:"title"`
		DueDate     time.Time   `db:"due_date"`
		Status      string      `db:"status"`
		SubmittedAt null.Time   `db:"submitted_at"`
		FileName    null.String `db:"file_name"`
	}

	notificationRow struct {
		ID        string    `db:"id"`
		StudentID string    `db:"student_id"`
		Message   string    `db:"message"`
		CreatedAt time.Time `db:"created_at"`
		Unread    bool      `db:"unread"`
	}

	bookingRow struct {
		ID           string    `db:"id"`
		StudentID    string    `db:"student_id"`
		ResourceType string    `db:"resource_type"`
		Room         string    `db:"room"`
		Date         string    `db:"date"`
		TimeSlot     string    `db:"time_slot"`
		Status       string    `db:"status"`
		CreatedAt    time.Time `db:"created_at"`
	}

	logRow struct {
		ID        string    `db:"id"`
		StudentID string    `db:"student_id"`
		Action    string    `db:"action"`
		CreatedAt time.Time `db:"created_at"`
	}

	materialRow struct {
		ID        string `db:"id"`
		StudentID string `db:"student_id"`
		Title     string `db:"title"`
		Type      string `db:"type"`
		URL       string `db:"url"`
	}

	examRow struct {
		ID        string    `db:"id"`
		StudentID string    `db:"student_id"`
		Subject   string    `db:"subject"`
		Date      time.Time `db:"date"`
	}

	feedbackRow struct {
		ID        string      `db:"id"`
		StudentID string      `db:"student_id"`
		Rating    int         `db:"rating"`
		Comment   null.String `db:"comment"`
		CreatedAt time.Time   `db:"created_at"`
	}

	feeStructureRow struct {
		ID           string  `db:"id"`
		Program      string  `db:"program"`
		Semester     string  `db:"semester"`
		FeeType      string  `db:"fee_type"`
		Amount       float64 `db:"amount"`
		AcademicYear string  `db:"academic_year"`
	}

	transactionRow struct {
		ID            string      `db:"id"`
		StudentID     string      `db:"student_id"`
		AmountPaid    float64     `db:"amount_paid"`
		Date          time.Time   `db:"date"`
		Mode          string      `db:"mode"`
		ReceiptURL    null.String `db:"receipt_url"`
		Status        string      `db:"status"`
		FeeType       string      `db:"fee_type"`
		TransactionID string      `db:"transaction_id"`
	}

	scholarshipRow struct {
		ID           string      `db:"id"`
		StudentID    string      `db:"student_id"`
		DiscountType string      `db:"discount_type"`
		Amount       float64     `db:"amount"`
		ApprovedBy   null.String `db:"approved_by"`
		Status       string      `db:"status"`
		CreatedAt    time.Time   `db:"created_at"`
	}

	dueReminderRow struct {
		ID           string    `db:"id"`
		StudentID    string    `db:"student_id"`
		DueDate      time.Time `db:"due_date"`
		ReminderSent bool      `db:"reminder_sent"`
		Amount       float64   `db:"amount"`
		FeeType      string    `db:"fee_type"`
	}

	facultyRow struct {
		FacultyID   string `db:"faculty_id"`
		Name        string `db:"name"`
		Email       string `db:"email"`
		Department  string `db:"department"`
		Designation string `db:"designation"`
	}

	leaveRow struct {
		FacultyID string `db:"faculty_id"`
		ID        int64  `db:"id"`
		Date      string `db:"date"`
		Reason    string `db:"reason"`
		Status    string `db:"status"`
		Type      string `db:"type"`
	}
)

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func toAssignmentRow(a campus.Assignment) assignmentRow {
	return assignmentRow{
		ID:          a.ID,
		StudentID:   a.StudentID,
		Title:       a.Title,
		DueDate:     a.DueDate.UTC(),
		Status:      a.Status,
		SubmittedAt: null.TimeFromPtr(a.SubmittedAt),
		FileName:    nullString(a.FileName),
	}
}

func (r assignmentRow) assignment() campus.Assignment {
	a := campus.Assignment{
		ID:        r.ID,
		StudentID: r.StudentID,
		Title:     r.Title,
		DueDate:   r.DueDate.UTC(),
		Status:    r.Status,
		FileName:  r.FileName.String,
	}
	if r.SubmittedAt.Valid {
		at := r.SubmittedAt.Time.UTC()
		a.SubmittedAt = &at
	}
	return a
}

func toTransactionRow(t campus.Transaction) transactionRow {
	return transactionRow{
		ID:            t.ID,
		StudentID:     t.StudentID,
		AmountPaid:    t.AmountPaid,
		Date:          t.Date.UTC(),
		Mode:          t.Mode,
		ReceiptURL:    nullString(t.ReceiptURL),
		Status:        t.Status,
		FeeType:       t.FeeType,
		TransactionID: t.TransactionID,
	}
}

func (r transactionRow) transaction() campus.Transaction {
	return campus.Transaction{
		ID:            r.ID,
		StudentID:     r.StudentID,
		AmountPaid:    r.AmountPaid,
		Date:          r.Date.UTC(),
		Mode:          r.Mode,
		ReceiptURL:    r.ReceiptURL.String,
		Status:        r.Status,
		FeeType:       r.FeeType,
		TransactionID: r.TransactionID,
	}
}

func toScholarshipRow(s campus.Scholarship) scholarshipRow {
	return scholarshipRow{
		ID:           s.ID,
		StudentID:    s.StudentID,
		DiscountType: s.DiscountType,
		Amount:       s.Amount,
		ApprovedBy:   nullString(s.ApprovedBy),
		Status:       s.Status,
		CreatedAt:    s.CreatedAt.UTC(),
	}
}

func (r scholarshipRow) scholarship() campus.Scholarship {
	return campus.Scholarship{
		ID:           r.ID,
		StudentID:    r.StudentID,
		DiscountType: r.DiscountType,
		Amount:       r.Amount,
		ApprovedBy:   r.ApprovedBy.String,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// convert maps every row with fn. It never returns a nil slice.
func convert[R, T any](rows []R, fn func(R) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
