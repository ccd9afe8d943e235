package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/services/logger"
)

func newTestHub(t *testing.T, bus Bus) *Hub {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), conf)
	h, err := NewHub(bus, conf, logger, NewMetrics(nil))
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, string) {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f.Event, string(f.Data)
}

func TestHub_ServeWS(t *testing.T) {
	h := newTestHub(t, NewMemoryBus())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	defer srv.Close()

	s1 := dial(t, srv, "?studentId=S1")
	event, data := readFrame(t, s1)
	assert.Equal(t, "joined", event)
	assert.Equal(t, `"S1"`, data)

	s2 := dial(t, srv, "")
	require.NoError(t, s2.WriteJSON(map[string]string{"event": "join-student", "data": "S2"}))
	event, data = readFrame(t, s2)
	assert.Equal(t, "joined", event)
	assert.Equal(t, `"S2"`, data)

	at := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, h.Publish(context.Background(), campus.LogEntry{ID: "l1", StudentID: "S1", Action: "Payment of ₹500 via UPI for Lab", CreatedAt: at}))

	event, data = readFrame(t, s1)
	assert.Equal(t, "student:S1:timeline", event)
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, Event{StudentID: "S1", Action: "Payment of ₹500 via UPI for Lab", CreatedAt: at}, ev)

	// S2 is not in the room of S1
	_ = s2.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var f Frame
	assert.Error(t, s2.ReadJSON(&f))

	conns, rooms := h.Stats()
	assert.Equal(t, 2, conns)
	assert.Equal(t, 2, rooms)
}

func TestHub_leave(t *testing.T) {
	h := newTestHub(t, NewMemoryBus())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r)
	}))
	defer srv.Close()

	conn := dial(t, srv, "?studentId=S1")
	readFrame(t, conn)
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "leave-student", "data": "S1"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"event": "join-student", "data": "S3"}))
	event, data := readFrame(t, conn)
	require.Equal(t, "joined", event)
	require.Equal(t, `"S3"`, data)

	_, rooms := h.Stats()
	assert.Equal(t, 1, rooms)
}

func TestHub_dropsWhenQueueIsFull(t *testing.T) {
	h := newTestHub(t, NewMemoryBus())
	c := newClient(h, nil, 1)
	require.True(t, h.register(c))
	h.join(c, "S1") // the ack fills the queue

	ctx := context.Background()
	require.NoError(t, h.Publish(ctx, campus.LogEntry{StudentID: "S1", Action: "a"}))
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.Dropped))
	assert.Equal(t, 0.0, promtest.ToFloat64(h.metrics.Delivered))

	<-c.send
	require.NoError(t, h.Publish(ctx, campus.LogEntry{StudentID: "S1", Action: "b"}))
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.Delivered))
	assert.Equal(t, 2.0, promtest.ToFloat64(h.metrics.Published))

	var f Frame
	require.NoError(t, json.Unmarshal(<-c.send, &f))
	assert.Equal(t, "student:S1:timeline", f.Event)

	h.unregister(c)
	_, open := <-c.send
	assert.False(t, open)
	conns, rooms := h.Stats()
	assert.Equal(t, 0, conns)
	assert.Equal(t, 0, rooms)
}

func TestHub_Close(t *testing.T) {
	bus := NewMemoryBus()
	h := newTestHub(t, bus)
	c := newClient(h, nil, 4)
	require.True(t, h.register(c))

	h.Close()
	_, open := <-c.send
	assert.False(t, open)
	assert.False(t, h.register(newClient(h, nil, 1)))
	// no longer subscribed
	require.NoError(t, bus.Publish(context.Background(), Event{StudentID: "S1"}))
}

func TestMemoryBus(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event
	unsubscribe, err := bus.Subscribe(func(ev Event) { got = append(got, ev) })
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, Event{StudentID: "S1", Action: "a"}))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(ctx, Event{StudentID: "S1", Action: "b"}))

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Action)
	assert.True(t, bus.Healthy(ctx))
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin", allowed: []string{"https://campus.test"}, want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://evil.test", want: true},
		{name: "listed", allowed: []string{"https://campus.test"}, origin: "https://campus.test", want: true},
		{name: "not listed", allowed: []string{"https://campus.test"}, origin: "https://evil.test", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/socket", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(r))
		})
	}
}

// set TEST_REDIS_ADDR to run against a live server
func TestRedisBus(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	conf := core.NewTestConfig()
	conf.Redis.Addr = addr
	logger := logsvc.NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), conf)

	ctx := context.Background()
	bus, err := NewRedisBus(ctx, conf, logger)
	require.NoError(t, err)
	defer bus.Close()

	got := make(chan Event, 1)
	unsubscribe, err := bus.Subscribe(func(ev Event) { got <- ev })
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, bus.Publish(ctx, Event{StudentID: "S1", Action: "a"}))
	select {
	case ev := <-got:
		assert.Equal(t, "S1", ev.StudentID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}
