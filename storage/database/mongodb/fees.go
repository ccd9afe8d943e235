package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) ListFeeStructures(ctx context.Context, program, semester string) ([]campus.FeeStructure, error) {
	return find[campus.FeeStructure](ctx, db.coll(feeStructuresColl), match("program", program, "semester", semester))
}

func (db *DB) AddFeeStructure(ctx context.Context, f campus.FeeStructure) error {
	return insert(ctx, db.coll(feeStructuresColl), f)
}

func (db *DB) ListTransactions(ctx context.Context, studentID string) ([]campus.Transaction, error) {
	return find[campus.Transaction](ctx, db.coll(transactionsColl), match("studentId", studentID))
}

func (db *DB) AddTransaction(ctx context.Context, t campus.Transaction) error {
	return insert(ctx, db.coll(transactionsColl), t)
}

func (db *DB) ListScholarships(ctx context.Context, filter campus.ScholarshipFilter) ([]campus.Scholarship, error) {
	return find[campus.Scholarship](ctx, db.coll(scholarshipsColl),
		match("id", filter.ID, "studentId", filter.StudentID, "status", filter.Status))
}

func (db *DB) AddScholarship(ctx context.Context, s campus.Scholarship) error {
	return insert(ctx, db.coll(scholarshipsColl), s)
}

func (db *DB) UpdateScholarship(ctx context.Context, s campus.Scholarship) error {
	res, err := db.coll(scholarshipsColl).UpdateOne(ctx,
		bson.M{"id": s.ID},
		bson.M{"$set": bson.M{"status": s.Status, "approvedBy": s.ApprovedBy}},
	)
	if err != nil {
		return errors.Wrap(err, "updating scholarship")
	}
	if res.MatchedCount == 0 {
		return campus.ErrNotFound
	}
	return nil
}

func (db *DB) ListDueReminders(ctx context.Context, filter campus.ReminderFilter) ([]campus.DueReminder, error) {
	q := match("studentId", filter.StudentID)
	if filter.UnsentOnly {
		q["reminderSent"] = false
	}
	return find[campus.DueReminder](ctx, db.coll(dueRemindersColl), q)
}

func (db *DB) AddDueReminder(ctx context.Context, r campus.DueReminder) error {
	return insert(ctx, db.coll(dueRemindersColl), r)
}

func (db *DB) MarkDueReminderSent(ctx context.Context, id string) error {
	res, err := db.coll(dueRemindersColl).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"reminderSent": true}})
	if err != nil {
		return errors.Wrap(err, "marking due reminder sent")
	}
	if res.MatchedCount == 0 {
		return campus.ErrNotFound
	}
	return nil
}
