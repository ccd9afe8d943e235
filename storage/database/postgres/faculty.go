package pgdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core/campus"
)

func (db *DB) GetFaculty(ctx context.Context, id string) (campus.Faculty, bool, error) {
	var r facultyRow
	err := db.db.GetContext(ctx, &r,
		`SELECT faculty_id, name, email, department, designation FROM faculty WHERE faculty_id = $1`, id)
	found, err := trapNoRowsErr(err, "getting faculty")
	return campus.Faculty(r), found, err
}

func (db *DB) CreateFaculty(ctx context.Context, f campus.Faculty) error {
	return db.insertUnique(ctx, `INSERT INTO faculty (faculty_id, name, email, department, designation)
		VALUES (:faculty_id, :name, :email, :department, :designation)`, facultyRow(f), "faculty")
}

func (db *DB) GetFacultySchedule(ctx context.Context, facultyID string) ([]campus.FacultyClass, error) {
	classes := make([]campus.FacultyClass, 0)
	if _, err := db.getJSON(ctx, `SELECT classes FROM faculty_schedules WHERE faculty_id = $1`, facultyID, &classes); err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []campus.FacultyClass{}
	}
	return classes, nil
}

func (db *DB) SetFacultySchedule(ctx context.Context, facultyID string, classes []campus.FacultyClass) error {
	if classes == nil {
		classes = []campus.FacultyClass{}
	}
	return db.setJSON(ctx, `INSERT INTO faculty_schedules (faculty_id, classes) VALUES ($1, $2)
		ON CONFLICT (faculty_id) DO UPDATE SET classes = EXCLUDED.classes`, facultyID, classes)
}

func (db *DB) ListLeaves(ctx context.Context, facultyID string) ([]campus.Leave, error) {
	var rows []leaveRow
	if err := db.db.SelectContext(ctx, &rows, `SELECT faculty_id, id, date, reason, status, type
		FROM faculty_leaves WHERE faculty_id = $1 ORDER BY seq`, facultyID); err != nil {
		return nil, errors.Wrap(err, "listing leaves")
	}
	return convert(rows, func(r leaveRow) campus.Leave {
		return campus.Leave{ID: r.ID, Date: r.Date, Reason: r.Reason, Status: r.Status, Type: r.Type}
	}), nil
}

func (db *DB) AddLeave(ctx context.Context, facultyID string, l campus.Leave) error {
	row := leaveRow{FacultyID: facultyID, ID: l.ID, Date: l.Date, Reason: l.Reason, Status: l.Status, Type: l.Type}
	return db.insert(ctx, `INSERT INTO faculty_leaves (faculty_id, id, date, reason, status, type)
		VALUES (:faculty_id, :id, :date, :reason, :status, :type)`, row, "leave")
}

func (db *DB) GetWorkload(ctx context.Context, facultyID string) (campus.Workload, error) {
	w := campus.EmptyWorkload()
	if _, err := db.getJSON(ctx, `SELECT workload FROM faculty_workloads WHERE faculty_id = $1`, facultyID, &w); err != nil {
		return campus.Workload{}, err
	}
	if w.Distribution == nil {
		w.Distribution = []campus.SubjectHours{}
	}
	return w, nil
}

func (db *DB) SetWorkload(ctx context.Context, facultyID string, w campus.Workload) error {
	return db.setJSON(ctx, `INSERT INTO faculty_workloads (faculty_id, workload) VALUES ($1, $2)
		ON CONFLICT (faculty_id) DO UPDATE SET workload = EXCLUDED.workload`, facultyID, w)
}
