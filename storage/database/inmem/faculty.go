package inmemdb

import (
	"context"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) GetFaculty(_ context.Context, id string) (campus.Faculty, bool, error) {
	f, found := db.faculty.find(func(f campus.Faculty) bool { return f.FacultyID == id })
	return f, found, nil
}

func (db *DB) CreateFaculty(_ context.Context, f campus.Faculty) error {
	if !db.faculty.addUnique(f, func(x campus.Faculty) bool { return x.FacultyID == f.FacultyID }) {
		return campus.ErrDuplicate
	}
	return nil
}

func (db *DB) GetFacultySchedule(_ context.Context, facultyID string) ([]campus.FacultyClass, error) {
	classes, _ := db.schedules.get(facultyID)
	out := make([]campus.FacultyClass, len(classes))
	copy(out, classes)
	return out, nil
}

func (db *DB) SetFacultySchedule(_ context.Context, facultyID string, classes []campus.FacultyClass) error {
	cp := make([]campus.FacultyClass, len(classes))
	copy(cp, classes)
	db.schedules.set(facultyID, cp)
	return nil
}

func (db *DB) ListLeaves(_ context.Context, facultyID string) ([]campus.Leave, error) {
	leaves, _ := db.leaves.get(facultyID)
	out := make([]campus.Leave, len(leaves))
	copy(out, leaves)
	return out, nil
}

func (db *DB) AddLeave(_ context.Context, facultyID string, l campus.Leave) error {
	db.leaves.change(facultyID, func(leaves []campus.Leave) []campus.Leave {
		return append(leaves, l)
	})
	return nil
}

func (db *DB) GetWorkload(_ context.Context, facultyID string) (campus.Workload, error) {
	w, ok := db.workloads.get(facultyID)
	if !ok {
		return campus.EmptyWorkload(), nil
	}
	return copyWorkload(w), nil
}

func (db *DB) SetWorkload(_ context.Context, facultyID string, w campus.Workload) error {
	db.workloads.set(facultyID, copyWorkload(w))
	return nil
}

func copyWorkload(w campus.Workload) campus.Workload {
	dist := make([]campus.SubjectHours, len(w.Distribution))
	copy(dist, w.Distribution)
	w.Distribution = dist
	return w
}
