package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KAILASATEJANI/nam/core"
)

const maxMessageSize = 4096

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// guarded by hub.mu
	rooms map[string]struct{}
}

func newClient(h *Hub, conn *websocket.Conn, buffer int) *client {
	if buffer <= 0 {
		buffer = 1
	}
	return &client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, buffer),
		rooms: make(map[string]struct{}),
	}
}

// enqueue queues msg without blocking and reports whether there was room for it.
// Callers hold hub.mu, so send is never closed underneath.
func (c *client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) pongWait() time.Duration {
	return c.hub.conf.PingPeriod * 10 / 9
}

// readPump handles the join & leave events of the peer until the connection fails.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug(fmt.Sprintf("websocket closed: %v", err))
			}
			if isDecodeError(err) {
				continue
			}
			return
		}

		var studentID string
		if len(f.Data) > 0 {
			if err := json.Unmarshal(f.Data, &studentID); err != nil {
				continue
			}
		}
		studentID = core.CleanString(studentID)
		if studentID == "" {
			continue
		}

		switch f.Event {
		case joinEvent:
			c.hub.join(c, studentID)
		case leaveEvent:
			c.hub.leave(c, studentID)
		}
	}
}

// writePump is the only writer of the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.conf.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.conf.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.conf.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isDecodeError reports whether err came from a malformed frame rather than from the connection.
func isDecodeError(err error) bool {
	switch err.(type) {
	case *json.SyntaxError, *json.UnmarshalTypeError:
		return true
	}
	return false
}
