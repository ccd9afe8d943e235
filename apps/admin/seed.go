package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core/campus"
)

// seed creates the sample dataset of every id not known yet; known ids are left untouched.
func (cli *commandLine) seed(students, faculty []string) error {
	ctx := context.Background()
	for _, id := range students {
		st, err := cli.svc.EnsureStudent(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "seeding student %q", id)
		}
		success.Fprintf(cli.out, "student %s (%s)\n", st.StudentID, st.Name)
	}
	for _, id := range faculty {
		f, err := cli.svc.EnsureFaculty(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "seeding faculty %q", id)
		}
		success.Fprintf(cli.out, "faculty %s (%s)\n", f.FacultyID, f.Name)
	}
	return nil
}

func (cli *commandLine) sendReminders() error {
	sent, err := cli.svc.SendDueReminders(context.Background())
	if err != nil {
		return err
	}
	if sent == 0 {
		notice.Fprintln(cli.out, "no reminders due")
		return nil
	}
	success.Fprintf(cli.out, "%d reminder(s) sent\n", sent)
	return nil
}

func (cli *commandLine) addFeeStructure(data campus.NewFeeStructure) error {
	if err := data.Validate(cli.validate); err != nil {
		return err
	}
	f, err := cli.svc.AddFeeStructure(context.Background(), data)
	if err != nil {
		return err
	}
	success.Fprintln(cli.out, fmt.Sprintf("fee structure %s: %s %s %s %v (%s)",
		f.ID, f.Program, f.Semester, f.FeeType, f.Amount, f.AcademicYear))
	return nil
}
