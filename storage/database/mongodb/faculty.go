package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/KAILASATEJANI/nam/core/campus"
)

type (
	scheduleDoc struct {
		FacultyID string                `bson:"facultyId"`
		Classes   []campus.FacultyClass `bson:"classes"`
	}

	leaveDoc struct {
		FacultyID    string `bson:"facultyId"`
		campus.Leave `bson:",inline"`
	}

	workloadDoc struct {
		FacultyID       string `bson:"facultyId"`
		campus.Workload `bson:",inline"`
	}
)

func (db *DB) GetFaculty(ctx context.Context, id string) (campus.Faculty, bool, error) {
	var f campus.Faculty
	found, err := findOne(ctx, db.coll(facultyColl), bson.M{"facultyId": id}, &f)
	return f, found, err
}

func (db *DB) CreateFaculty(ctx context.Context, f campus.Faculty) error {
	return insertUnique(ctx, db.coll(facultyColl), f)
}

func (db *DB) GetFacultySchedule(ctx context.Context, facultyID string) ([]campus.FacultyClass, error) {
	var doc scheduleDoc
	if _, err := findOne(ctx, db.coll(facultySchedulesColl), bson.M{"facultyId": facultyID}, &doc); err != nil {
		return nil, err
	}
	if doc.Classes == nil {
		doc.Classes = []campus.FacultyClass{}
	}
	return doc.Classes, nil
}

func (db *DB) SetFacultySchedule(ctx context.Context, facultyID string, classes []campus.FacultyClass) error {
	return replace(ctx, db.coll(facultySchedulesColl), bson.M{"facultyId": facultyID}, scheduleDoc{FacultyID: facultyID, Classes: classes})
}

func (db *DB) ListLeaves(ctx context.Context, facultyID string) ([]campus.Leave, error) {
	docs, err := find[leaveDoc](ctx, db.coll(facultyLeavesColl), bson.M{"facultyId": facultyID})
	if err != nil {
		return nil, err
	}
	leaves := make([]campus.Leave, 0, len(docs))
	for _, doc := range docs {
		leaves = append(leaves, doc.Leave)
	}
	return leaves, nil
}

func (db *DB) AddLeave(ctx context.Context, facultyID string, l campus.Leave) error {
	return insert(ctx, db.coll(facultyLeavesColl), leaveDoc{FacultyID: facultyID, Leave: l})
}

func (db *DB) GetWorkload(ctx context.Context, facultyID string) (campus.Workload, error) {
	var doc workloadDoc
	found, err := findOne(ctx, db.coll(facultyWorkloadsColl), bson.M{"facultyId": facultyID}, &doc)
	if err != nil {
		return campus.Workload{}, err
	}
	if !found {
		return campus.EmptyWorkload(), nil
	}
	if doc.Distribution == nil {
		doc.Distribution = []campus.SubjectHours{}
	}
	return doc.Workload, nil
}

func (db *DB) SetWorkload(ctx context.Context, facultyID string, w campus.Workload) error {
	return replace(ctx, db.coll(facultyWorkloadsColl), bson.M{"facultyId": facultyID}, workloadDoc{FacultyID: facultyID, Workload: w})
}
