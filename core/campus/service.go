package campus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
)

// Publisher delivers a just-appended timeline entry to the realtime subscribers of its student.
type Publisher interface {
	Publish(ctx context.Context, entry LogEntry) error
}

type Service struct {
	store     Store
	publisher Publisher
	mailSvc   core.EmailService
	logger    core.Logger
	conf      *core.Config
	now       func() time.Time
	newID     func() string

	seedMu  sync.Mutex // serialises first-access seeding
	leaveMu sync.Mutex
}

func NewService(store Store, publisher Publisher, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		mailSvc:   mailSvc,
		logger:    logger,
		conf:      conf,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// SetClock replaces the clock used for seeded dates and new records.
func (svc *Service) SetClock(now func() time.Time) {
	svc.now = now
}

// StoreName reports which store backend is in use.
func (svc *Service) StoreName() string {
	return svc.store.Name()
}

// EnsureStudent returns the student with `id`, seeding its sample dataset on first access.
func (svc *Service) EnsureStudent(ctx context.Context, id string) (Student, error) {
	st, found, err := svc.store.GetStudent(ctx, id)
	if err != nil {
		return Student{}, errors.Wrap(err, "getting student")
	}
	if found {
		return st, nil
	}

	svc.seedMu.Lock()
	defer svc.seedMu.Unlock()

	// another request may have seeded it while we waited
	if st, found, err = svc.store.GetStudent(ctx, id); err != nil {
		return Student{}, errors.Wrap(err, "getting student")
	} else if found {
		return st, nil
	}

	seed := NewStudentSeed(id, svc.conf.Fees.Program, svc.now(), svc.newID)
	if err = svc.seedStudent(ctx, seed); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return Student{}, errors.Wrapf(err, "seeding student %q", id)
		}
		// seeded by another instance sharing the store
		st, found, err = svc.store.GetStudent(ctx, id)
		if err != nil {
			return Student{}, errors.Wrap(err, "getting student")
		}
		if !found {
			return Student{}, errors.Wrapf(ErrDuplicate, "seeding student %q", id)
		}
		return st, nil
	}
	svc.logger.Debug(fmt.Sprintf("seeded student %q", id))
	return seed.Student, nil
}

// seedStudent writes the Person last: its existence marks the seed as complete.
func (svc *Service) seedStudent(ctx context.Context, seed StudentSeed) error {
	id := seed.Student.StudentID
	if err := svc.store.SetTimetable(ctx, id, seed.Timetable); err != nil {
		return errors.Wrap(err, "setting timetable")
	}
	if err := svc.store.SetAttendance(ctx, id, seed.Attendance); err != nil {
		return errors.Wrap(err, "setting attendance")
	}
	for _, a := range seed.Assignments {
		if err := svc.store.AddAssignment(ctx, a); err != nil {
			return errors.Wrap(err, "adding assignment")
		}
	}
	for _, n := range seed.Notifications {
		if err := svc.store.AddNotification(ctx, n); err != nil {
			return errors.Wrap(err, "adding notification")
		}
	}
	for _, l := range seed.Logs {
		if err := svc.store.AddLog(ctx, l); err != nil {
			return errors.Wrap(err, "adding log")
		}
	}
	for _, m := range seed.Materials {
		if err := svc.store.AddMaterial(ctx, m); err != nil {
			return errors.Wrap(err, "adding material")
		}
	}
	for _, e := range seed.Exams {
		if err := svc.store.AddExam(ctx, e); err != nil {
			return errors.Wrap(err, "adding exam")
		}
	}
	if err := svc.ensureFeeCatalog(ctx, seed.Student.Program, seed.Student.Semester); err != nil {
		return errors.Wrap(err, "seeding fee catalog")
	}
	for _, t := range seed.Transactions {
		if err := svc.store.AddTransaction(ctx, t); err != nil {
			return errors.Wrap(err, "adding transaction")
		}
	}
	for _, s := range seed.Scholarships {
		if err := svc.store.AddScholarship(ctx, s); err != nil {
			return errors.Wrap(err, "adding scholarship")
		}
	}
	for _, r := range seed.DueReminders {
		if err := svc.store.AddDueReminder(ctx, r); err != nil {
			return errors.Wrap(err, "adding due reminder")
		}
	}
	return errors.Wrap(svc.store.CreateStudent(ctx, seed.Student), "creating student")
}

// ensureFeeCatalog seeds the catalog rows of (program, semester) once, whatever the number of students.
func (svc *Service) ensureFeeCatalog(ctx context.Context, program, semester string) error {
	rows, err := svc.store.ListFeeStructures(ctx, program, semester)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	for _, f := range NewFeeCatalog(program, semester, svc.newID) {
		if err = svc.store.AddFeeStructure(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// EnsureFaculty returns the faculty member with `id`, seeding its sample dataset on first access.
func (svc *Service) EnsureFaculty(ctx context.Context, id string) (Faculty, error) {
	f, found, err := svc.store.GetFaculty(ctx, id)
	if err != nil {
		return Faculty{}, errors.Wrap(err, "getting faculty")
	}
	if found {
		return f, nil
	}

	svc.seedMu.Lock()
	defer svc.seedMu.Unlock()

	if f, found, err = svc.store.GetFaculty(ctx, id); err != nil {
		return Faculty{}, errors.Wrap(err, "getting faculty")
	} else if found {
		return f, nil
	}

	seed := NewFacultySeed(id, svc.now())
	if err = svc.store.SetFacultySchedule(ctx, id, seed.Schedule); err != nil {
		return Faculty{}, errors.Wrap(err, "setting faculty schedule")
	}
	for _, l := range seed.Leaves {
		if err = svc.store.AddLeave(ctx, id, l); err != nil {
			return Faculty{}, errors.Wrap(err, "adding leave")
		}
	}
	if err = svc.store.SetWorkload(ctx, id, seed.Workload); err != nil {
		return Faculty{}, errors.Wrap(err, "setting workload")
	}
	if err = svc.store.CreateFaculty(ctx, seed.Faculty); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return Faculty{}, errors.Wrap(err, "creating faculty")
		}
		if f, found, err = svc.store.GetFaculty(ctx, id); err != nil {
			return Faculty{}, errors.Wrap(err, "getting faculty")
		} else if !found {
			return Faculty{}, errors.Wrapf(ErrDuplicate, "seeding faculty %q", id)
		}
		return f, nil
	}
	svc.logger.Debug(fmt.Sprintf("seeded faculty %q", id))
	return seed.Faculty, nil
}

// appendLog adds a timeline entry for the student and publishes it. Publishing is best-effort.
func (svc *Service) appendLog(ctx context.Context, studentID, action string) (LogEntry, error) {
	entry := LogEntry{
		ID:        svc.newID(),
		StudentID: studentID,
		Action:    action,
		CreatedAt: svc.now(),
	}
	if err := svc.store.AddLog(ctx, entry); err != nil {
		return LogEntry{}, errors.Wrap(err, "adding log")
	}
	if svc.publisher != nil {
		if err := svc.publisher.Publish(ctx, entry); err != nil {
			svc.logger.Warn(fmt.Sprintf("publishing timeline event: %v", err), err)
		}
	}
	return entry, nil
}
