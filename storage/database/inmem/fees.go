package inmemdb

import (
	"context"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) ListFeeStructures(_ context.Context, program, semester string) ([]campus.FeeStructure, error) {
	return db.feeStructures.filter(func(f campus.FeeStructure) bool {
		return (program == "" || f.Program == program) && (semester == "" || f.Semester == semester)
	}), nil
}

func (db *DB) AddFeeStructure(_ context.Context, f campus.FeeStructure) error {
	db.feeStructures.add(f)
	return nil
}

func (db *DB) ListTransactions(_ context.Context, studentID string) ([]campus.Transaction, error) {
	return db.transactions.filter(func(t campus.Transaction) bool {
		return studentID == "" || t.StudentID == studentID
	}), nil
}

func (db *DB) AddTransaction(_ context.Context, t campus.Transaction) error {
	db.transactions.add(t)
	return nil
}

func (db *DB) ListScholarships(_ context.Context, filter campus.ScholarshipFilter) ([]campus.Scholarship, error) {
	return db.scholarships.filter(func(s campus.Scholarship) bool {
		return (filter.ID == "" || s.ID == filter.ID) &&
			(filter.StudentID == "" || s.StudentID == filter.StudentID) &&
			(filter.Status == "" || s.Status == filter.Status)
	}), nil
}

func (db *DB) AddScholarship(_ context.Context, s campus.Scholarship) error {
	db.scholarships.add(s)
	return nil
}

func (db *DB) UpdateScholarship(_ context.Context, s campus.Scholarship) error {
	found := db.scholarships.update(
		func(row campus.Scholarship) bool { return row.ID == s.ID },
		func(row *campus.Scholarship) {
			row.Status = s.Status
			row.ApprovedBy = s.ApprovedBy
		},
	)
	if !found {
		return campus.ErrNotFound
	}
	return nil
}

func (db *DB) ListDueReminders(_ context.Context, filter campus.ReminderFilter) ([]campus.DueReminder, error) {
	return db.dueReminders.filter(func(r campus.DueReminder) bool {
		return (filter.StudentID == "" || r.StudentID == filter.StudentID) && !(filter.UnsentOnly && r.ReminderSent)
	}), nil
}

func (db *DB) AddDueReminder(_ context.Context, r campus.DueReminder) error {
	db.dueReminders.add(r)
	return nil
}

func (db *DB) MarkDueReminderSent(_ context.Context, id string) error {
	found := db.dueReminders.update(
		func(r campus.DueReminder) bool { return r.ID == id },
		func(r *campus.DueReminder) { r.ReminderSent = true },
	)
	if !found {
		return campus.ErrNotFound
	}
	return nil
}
