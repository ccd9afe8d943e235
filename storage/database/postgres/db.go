// Package pgdb implements the campus store on PostgreSQL. The schema is managed with goose
// migrations embedded in the binary.
package pgdb

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	db *sqlx.DB
}

var _ campus.Store = (*DB)(nil)

// Open connects to conf.Postgres.URL, waits for the server to be ready and applies pending migrations.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	db, err := sqlx.Open("postgres", conf.Postgres.URL)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Postgres.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.Postgres.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, conf.Postgres.ConnectTimeout)
	defer cancel()
	if err = ping(pingCtx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sql.DB) error {
	var err error
	for attempts := 1; ; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(err, "DB ping timeout")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
}

// Migrate runs a goose command ("up", "down", "status", "redo", ...) against the embedded migrations.
func Migrate(db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrating database (%s)", command)
	}
	return nil
}

func (db *DB) Name() string { return "postgres" }

func (db *DB) Close(context.Context) error {
	return errors.Wrap(db.db.Close(), "closing database")
}

// SQL exposes the underlying connection pool to migration tooling.
func (db *DB) SQL() *sql.DB {
	return db.db.DB
}

// Truncate empties every table. Used by tests.
func (db *DB) Truncate(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `TRUNCATE students, timetables, attendance, assignments, notifications,
		bookings, logs, materials, exams, feedback, fee_structures, transactions, scholarships, due_reminders,
		faculty, faculty_schedules, faculty_leaves, faculty_workloads RESTART IDENTITY`)
	return errors.Wrap(err, "truncating tables")
}

func (db *DB) insert(ctx context.Context, query string, row interface{}, what string) error {
	_, err := db.db.NamedExecContext(ctx, query, row)
	return errors.Wrapf(err, "inserting %s", what)
}

const uniqueViolation = "23505"

// insertUnique runs an insert, reporting a unique constraint violation as campus.ErrDuplicate.
func (db *DB) insertUnique(ctx context.Context, query string, row interface{}, what string) error {
	if _, err := db.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return campus.ErrDuplicate
		}
		return errors.Wrapf(err, "inserting %s", what)
	}
	return nil
}

// trapNoRowsErr reports "no rows" as not found instead of as an error
func trapNoRowsErr(err error, msg string) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, errors.Wrap(err, msg)
	}
}
