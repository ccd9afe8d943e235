// Package realtime fans timeline events out to websocket subscribers, optionally across
// instances through a Redis channel.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is a timeline entry as pushed to subscribers.
type Event struct {
	StudentID string    `json:"studentId"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}

// Name is the event name subscribers of the student receive.
func (ev Event) Name() string {
	return fmt.Sprintf("student:%s:timeline", ev.StudentID)
}

// Bus carries events from publishers to every subscribed hub.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers handler for every event published from now on.
	Subscribe(handler func(Event)) (unsubscribe func(), err error)
	// Healthy reports whether the bus can currently deliver.
	Healthy(ctx context.Context) bool
	Close() error
}

// MemoryBus delivers events synchronously to the handlers of this process.
type MemoryBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(Event)
}

var _ Bus = (*MemoryBus)(nil)

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]func(Event))}
}

func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) Subscribe(handler func(Event)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}, nil
}

func (b *MemoryBus) Healthy(context.Context) bool { return true }

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	b.handlers = make(map[int]func(Event))
	b.mu.Unlock()
	return nil
}
