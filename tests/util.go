package testutil

import (
	"bytes"
	"context"
	"log"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/services/email"
	"github.com/KAILASATEJANI/nam/services/logger"
	"github.com/KAILASATEJANI/nam/storage/database/inmem"
)

// Now is the fixed clock of services built by NewService.
var Now = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// NewLogger returns a logger writing into buf, or nowhere when buf is nil.
func NewLogger(conf *core.Config, buf *bytes.Buffer) core.Logger {
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	return logsvc.NewRollbarLogger(log.New(buf, "TEST : ", 0), conf)
}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewService returns a service over a fresh in-memory store, using the mock mailer
// and a clock frozen at Now.
func NewService(t *testing.T, conf *core.Config, publisher campus.Publisher) (*campus.Service, *inmemdb.DB) {
	t.Helper()
	db := inmemdb.Open()
	return NewServiceWithStore(t, conf, db, publisher), db
}

// NewServiceWithStore is NewService over `store`.
func NewServiceWithStore(t *testing.T, conf *core.Config, store campus.Store, publisher campus.Publisher) *campus.Service {
	t.Helper()
	logger := NewLogger(conf, nil)
	svc := campus.NewService(store, publisher, emailsvc.NewConsoleServiceMock(conf, logger), logger, conf)
	svc.SetClock(func() time.Time { return Now })
	return svc
}

// Recorder is a campus.Publisher keeping every published entry.
type Recorder struct {
	mu      sync.Mutex
	entries []campus.LogEntry
}

func (r *Recorder) Publish(_ context.Context, entry campus.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *Recorder) Entries() []campus.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]campus.LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
