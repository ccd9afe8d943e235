package inmemdb

import (
	"context"
	"sync"

	"github.com/KAILASATEJANI/nam/core/campus"
)

type (
	// collection is an append-only sequence filtered at read time.
	collection[T any] struct {
		sync.RWMutex
		rows []T
	}

	// keyed is a map of wholesale-replaced values.
	keyed[T any] struct {
		sync.RWMutex
		table map[string]T
	}

	DB struct {
		students      collection[campus.Student]
		timetables    keyed[campus.WeekSchedule]
		attendance    keyed[campus.AttendanceRecord]
		assignments   collection[campus.Assignment]
		notifications collection[campus.Notification]
		bookings      collection[campus.Booking]
		logs          collection[campus.LogEntry]
		materials     collection[campus.Material]
		exams         collection[campus.Exam]
		feedback      collection[campus.Feedback]

		feeStructures collection[campus.FeeStructure]
		transactions  collection[campus.Transaction]
		scholarships  collection[campus.Scholarship]
		dueReminders  collection[campus.DueReminder]

		faculty   collection[campus.Faculty]
		schedules keyed[[]campus.FacultyClass]
		leaves    keyed[[]campus.Leave]
		workloads keyed[campus.Workload]
	}
)

var _ campus.Store = (*DB)(nil)

// Open returns an empty in-memory store. All state is lost when the process exits.
func Open() *DB {
	return &DB{
		timetables: keyed[campus.WeekSchedule]{table: make(map[string]campus.WeekSchedule)},
		attendance: keyed[campus.AttendanceRecord]{table: make(map[string]campus.AttendanceRecord)},
		schedules:  keyed[[]campus.FacultyClass]{table: make(map[string][]campus.FacultyClass)},
		leaves:     keyed[[]campus.Leave]{table: make(map[string][]campus.Leave)},
		workloads:  keyed[campus.Workload]{table: make(map[string]campus.Workload)},
	}
}

func (db *DB) Name() string { return "memory" }

func (db *DB) Close(context.Context) error { return nil }

func (c *collection[T]) add(row T) {
	c.Lock()
	defer c.Unlock()
	c.rows = append(c.rows, row)
}

// addUnique appends row unless a row matching it already exists.
func (c *collection[T]) addUnique(row T, match func(T) bool) bool {
	c.Lock()
	defer c.Unlock()
	for _, r := range c.rows {
		if match(r) {
			return false
		}
	}
	c.rows = append(c.rows, row)
	return true
}

func (c *collection[T]) filter(keep func(T) bool) []T {
	c.RLock()
	defer c.RUnlock()
	out := make([]T, 0)
	for _, row := range c.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (c *collection[T]) find(match func(T) bool) (T, bool) {
	c.RLock()
	defer c.RUnlock()
	for _, row := range c.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// update applies fn to the first row matching and reports whether one did.
func (c *collection[T]) update(match func(T) bool, fn func(*T)) bool {
	c.Lock()
	defer c.Unlock()
	for i := range c.rows {
		if match(c.rows[i]) {
			fn(&c.rows[i])
			return true
		}
	}
	return false
}

func (k *keyed[T]) get(id string) (T, bool) {
	k.RLock()
	defer k.RUnlock()
	v, ok := k.table[id]
	return v, ok
}

func (k *keyed[T]) set(id string, v T) {
	k.Lock()
	defer k.Unlock()
	k.table[id] = v
}

// change replaces the value under id with what fn returns, atomically.
func (k *keyed[T]) change(id string, fn func(T) T) {
	k.Lock()
	defer k.Unlock()
	k.table[id] = fn(k.table[id])
}

func all[T any](T) bool { return true }
