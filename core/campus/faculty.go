package campus

import (
	"context"

	"github.com/pkg/errors"
)

func (svc *Service) FacultySchedule(ctx context.Context, facultyID string) ([]FacultyClass, error) {
	if _, err := svc.EnsureFaculty(ctx, facultyID); err != nil {
		return nil, err
	}
	list, err := svc.store.GetFacultySchedule(ctx, facultyID)
	return list, errors.Wrap(err, "getting faculty schedule")
}

func (svc *Service) FacultyWorkload(ctx context.Context, facultyID string) (Workload, error) {
	if _, err := svc.EnsureFaculty(ctx, facultyID); err != nil {
		return Workload{}, err
	}
	w, err := svc.store.GetWorkload(ctx, facultyID)
	return w, errors.Wrap(err, "getting workload")
}

func (svc *Service) Leaves(ctx context.Context, facultyID string) ([]Leave, error) {
	if _, err := svc.EnsureFaculty(ctx, facultyID); err != nil {
		return nil, err
	}
	list, err := svc.store.ListLeaves(ctx, facultyID)
	return list, errors.Wrap(err, "listing leaves")
}

// RequestLeave stores a pending leave. Its id is the creation time in milliseconds,
// bumped when needed so ids stay unique per faculty member.
func (svc *Service) RequestLeave(ctx context.Context, facultyID string, nl NewLeave) (Leave, error) {
	if _, err := svc.EnsureFaculty(ctx, facultyID); err != nil {
		return Leave{}, err
	}

	svc.leaveMu.Lock()
	defer svc.leaveMu.Unlock()

	leaves, err := svc.store.ListLeaves(ctx, facultyID)
	if err != nil {
		return Leave{}, errors.Wrap(err, "listing leaves")
	}
	id := svc.now().UnixMilli()
	for _, l := range leaves {
		if l.ID >= id {
			id = l.ID + 1
		}
	}

	l := Leave{
		ID:     id,
		Date:   nl.Date,
		Reason: nl.Reason,
		Status: StatusPending,
		Type:   firstNonEmpty(nl.Type, "personal"),
	}
	return l, errors.Wrap(svc.store.AddLeave(ctx, facultyID, l), "adding leave")
}
