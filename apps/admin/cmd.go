package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"

	"github.com/KAILASATEJANI/nam/core/campus"
)

var (
	errHelp       = errors.New("help provided")
	errNoPostgres = errors.New("migrate needs a reachable PostgreSQL database (DATABASE_URL)")

	success = color.New(color.FgGreen)
	notice  = color.New(color.FgYellow)
)

type commandLine struct {
	svc       *campus.Service
	validate  *validator.Validate
	storeName string
	db        *sql.DB // nil unless the store is PostgreSQL
	out       io.Writer
}

// warnVolatile tells the user that nothing written to an in-memory store outlives the command.
func (cli *commandLine) warnVolatile() {
	if cli.storeName == "memory" {
		notice.Fprintln(cli.out, "warning: no database configured (MONGO_URL, DATABASE_URL); changes are lost when the command exits")
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed -student ID[,ID...] -faculty ID[,ID...]  - seed the sample data of students & faculty members")
	fmt.Fprintln(cli.out, "  reminders                                      - email the fee reminders falling due")
	fmt.Fprintln(cli.out, "  fee-structure -program P -semester S -type T -amount A -year Y - add a fee row to the catalog")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                         - run a goose command against PostgreSQL")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	seedStudents := seedCmd.String("student", "", "Comma-separated student ids.")
	seedFaculty := seedCmd.String("faculty", "", "Comma-separated faculty ids.")

	feeCmd := flag.NewFlagSet("fee-structure", flag.ContinueOnError)
	feeCmd.SetOutput(cli.out)
	feeProgram := feeCmd.String("program", "", "Program, e.g. B.Tech.")
	feeSemester := feeCmd.String("semester", "", "Semester, e.g. 5.")
	feeType := feeCmd.String("type", "", "Fee type, e.g. Tuition.")
	feeAmount := feeCmd.Float64("amount", 0, "Amount due.")
	feeYear := feeCmd.String("year", "", "Academic year, e.g. 2024-25.")

	switch args[1] {
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		students, faculty := splitIDs(*seedStudents), splitIDs(*seedFaculty)
		if len(students) == 0 && len(faculty) == 0 {
			seedCmd.Usage()
			return errHelp
		}
		cli.warnVolatile()
		return cli.seed(students, faculty)
	case "reminders":
		cli.warnVolatile()
		return cli.sendReminders()
	case "fee-structure":
		if err := feeCmd.Parse(args[2:]); err != nil {
			return err
		}
		cli.warnVolatile()
		return cli.addFeeStructure(campus.NewFeeStructure{
			Program:      *feeProgram,
			Semester:     *feeSemester,
			FeeType:      *feeType,
			Amount:       *feeAmount,
			AcademicYear: *feeYear,
		})
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func splitIDs(s string) []string {
	ids := make([]string, 0)
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
