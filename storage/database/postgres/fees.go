package pgdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) ListFeeStructures(ctx context.Context, program, semester string) ([]campus.FeeStructure, error) {
	var rows []feeStructureRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, program, semester, fee_type, amount, academic_year
		FROM fee_structures WHERE ($1 = '' OR program = $1) AND ($2 = '' OR semester = $2) ORDER BY seq`,
		program, semester); err != nil {
		return nil, errors.Wrap(err, "listing fee structures")
	}
	return convert(rows, func(r feeStructureRow) campus.FeeStructure { return campus.FeeStructure(r) }), nil
}

func (db *DB) AddFeeStructure(ctx context.Context, f campus.FeeStructure) error {
	return db.insert(ctx, `INSERT INTO fee_structures (id, program, semester, fee_type, amount, academic_year)
		VALUES (:id, :program, :semester, :fee_type, :amount, :academic_year)`, feeStructureRow(f), "fee structure")
}

func (db *DB) ListTransactions(ctx context.Context, studentID string) ([]campus.Transaction, error) {
	var rows []transactionRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, amount_paid, date, mode, receipt_url, status,
		fee_type, transaction_id FROM transactions WHERE ($1 = '' OR student_id = $1) ORDER BY seq`, studentID); err != nil {
		return nil, errors.Wrap(err, "listing transactions")
	}
	return convert(rows, transactionRow.transaction), nil
}

func (db *DB) AddTransaction(ctx context.Context, t campus.Transaction) error {
	return db.insert(ctx, `INSERT INTO transactions (id, student_id, amount_paid, date, mode, receipt_url, status,
		fee_type, transaction_id) VALUES (:id, :student_id, :amount_paid, :date, :mode, :receipt_url, :status,
		:fee_type, :transaction_id)`, toTransactionRow(t), "transaction")
}

func (db *DB) ListScholarships(ctx context.Context, filter campus.ScholarshipFilter) ([]campus.Scholarship, error) {
	var rows []scholarshipRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, discount_type, amount, approved_by, status, created_at
		FROM scholarships
		WHERE ($1 = '' OR id = $1) AND ($2 = '' OR student_id = $2) AND ($3 = '' OR status = $3)
		ORDER BY seq`, filter.ID, filter.StudentID, filter.Status); err != nil {
		return nil, errors.Wrap(err, "listing scholarships")
	}
	return convert(rows, scholarshipRow.scholarship), nil
}

func (db *DB) AddScholarship(ctx context.Context, s campus.Scholarship) error {
	return db.insert(ctx, `INSERT INTO scholarships (id, student_id, discount_type, amount, approved_by, status, created_at)
		VALUES (:id, :student_id, :discount_type, :amount, :approved_by, :status, :created_at)`,
		toScholarshipRow(s), "scholarship")
}

func (db *DB) UpdateScholarship(ctx context.Context, s campus.Scholarship) error {
	res, err := db.db.ExecContext(ctx, `UPDATE scholarships SET status = $2, approved_by = $3 WHERE id = $1`,
		s.ID, s.Status, nullString(s.ApprovedBy))
	if err != nil {
		return errors.Wrap(err, "updating scholarship")
	}
	return checkAffected(res.RowsAffected())
}

func (db *DB) ListDueReminders(ctx context.Context, filter campus.ReminderFilter) ([]campus.DueReminder, error) {
	var rows []dueReminderRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT id, student_id, due_date, reminder_sent, amount, fee_type
		FROM due_reminders WHERE ($1 = '' OR student_id = $1) AND (NOT $2 OR NOT reminder_sent) ORDER BY seq`,
		filter.StudentID, filter.UnsentOnly); err != nil {
		return nil, errors.Wrap(err, "listing due reminders")
	}
	return convert(rows, func(r dueReminderRow) campus.DueReminder {
		r.DueDate = r.DueDate.UTC()
		return campus.DueReminder(r)
	}), nil
}

func (db *DB) AddDueReminder(ctx context.Context, r campus.DueReminder) error {
	r.DueDate = r.DueDate.UTC()
	return db.insert(ctx, `INSERT INTO due_reminders (id, student_id, due_date, reminder_sent, amount, fee_type)
		VALUES (:id, :student_id, :due_date, :reminder_sent, :amount, :fee_type)`, dueReminderRow(r), "due reminder")
}

func (db *DB) MarkDueReminderSent(ctx context.Context, id string) error {
	res, err := db.db.ExecContext(ctx, `UPDATE due_reminders SET reminder_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "marking due reminder sent")
	}
	return checkAffected(res.RowsAffected())
}

func checkAffected(n int64, err error) error {
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return campus.ErrNotFound
	}
	return nil
}
