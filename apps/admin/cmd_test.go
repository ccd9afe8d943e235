package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/storage/database/inmem"
	"github.com/KAILASATEJANI/nam/tests"
)

func setup(t *testing.T) (*commandLine, *inmemdb.DB, *bytes.Buffer) {
	conf := core.NewTestConfig()
	svc, db := testutil.NewService(t, conf, nil)
	validate, _ := testutil.NewValidator()

	var out bytes.Buffer
	return &commandLine{
		svc:       svc,
		validate:  validate,
		storeName: db.Name(),
		out:       &out,
	}, db, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "seed: no ids", args: []string{"seed"}, wantErr: errHelp},
		{name: "seed: blank ids", args: []string{"seed", "-student", " , "}, wantErr: errHelp},
		{name: "migrate: no command", args: []string{"migrate"}, wantErr: errHelp},
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli, db, out := setup(t)
	ctx := context.Background()

	runCLITests(t, cli, []cliTest{
		{name: "students & faculty", args: []string{"seed", "-student", "STU1, STU2", "-faculty", "FAC1"}},
		{name: "again", args: []string{"seed", "-student", "STU1"}},
	})

	students, err := db.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	assignments, err := db.ListAssignments(ctx, "STU1")
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	_, found, err := db.GetFaculty(ctx, "FAC1")
	require.NoError(t, err)
	assert.True(t, found)

	assert.Contains(t, out.String(), "student STU2 (Student STU2)")
	assert.Contains(t, out.String(), "faculty FAC1 (Prof. Smith)")
}

func Test_commandLine_reminders(t *testing.T) {
	cli, db, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "nothing due", args: []string{"reminders"}},
		{name: "seed", args: []string{"seed", "-student", "STU1"}},
		{name: "due", args: []string{"reminders"}},
	})

	assert.Contains(t, out.String(), "no reminders due")
	assert.Contains(t, out.String(), "2 reminder(s) sent")

	unsent, err := db.ListDueReminders(context.Background(), campus.ReminderFilter{UnsentOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unsent)
}

func Test_commandLine_feeStructure(t *testing.T) {
	cli, db, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "unknown flag", args: []string{"fee-structure", "-lol", "1"}, wantErrStr: "flag provided but not defined: -lol"},
		{
			name: "valid",
			args: []string{"fee-structure", "-program", "MBA", "-semester", "2", "-type", "Tuition", "-amount", "90000", "-year", "2024-25"},
		},
	})

	// validation errors
	err := cli.run([]string{"admin", "fee-structure", "-program", "MBA"})
	assert.Error(t, err)

	rows, err := db.ListFeeStructures(context.Background(), "MBA", "2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 90000.0, rows[0].Amount)
	assert.Equal(t, "2024-25", rows[0].AcademicYear)
}

func Test_commandLine_inMemoryWarning(t *testing.T) {
	const warning = "warning: no database configured"

	tests := []struct {
		name string
		args []string
	}{
		{name: "seed", args: []string{"seed", "-student", "STU1"}},
		{name: "reminders", args: []string{"reminders"}},
		{
			name: "fee-structure",
			args: []string{"fee-structure", "-program", "MBA", "-semester", "2", "-type", "Tuition", "-amount", "90000", "-year", "2024-25"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, out := setup(t)
			require.NoError(t, cli.run(append([]string{"admin"}, tt.args...)))
			assert.Contains(t, out.String(), warning)

			cli, _, out = setup(t)
			cli.storeName = "postgres"
			require.NoError(t, cli.run(append([]string{"admin"}, tt.args...)))
			assert.NotContains(t, out.String(), warning)
		})
	}

	// usage errors do not warn
	cli, _, out := setup(t)
	assert.Equal(t, errHelp, cli.run([]string{"admin", "seed"}))
	assert.NotContains(t, out.String(), warning)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "store is not postgres", args: []string{"migrate", "up"}, wantErr: errNoPostgres},
	})

	// sql.Open does not connect
	db, err := sql.Open("postgres", "postgres://localhost/campus?sslmode=disable")
	require.NoError(t, err)
	defer db.Close()
	cli.db = db

	defer func(run func(*sql.DB, string, ...string) error) { gooseRunFunc = run }(gooseRunFunc)
	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "bookings_index", "sql"}},
	})
}
