// Package coretest provides an in-memory core.SignalConnection for tests.
package coretest

import (
	"sync"

	"github.com/goccy/go-json"

	"github.com/dkeye/labwatch/internal/core"
)

// Conn records every frame queued on it.
type Conn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func NewConn(id string) *Conn { return &Conn{id: core.ConnID(id)} }

func (c *Conn) ID() core.ConnID { return c.id }

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// SetFull makes TrySend report backpressure.
func (c *Conn) SetFull(full bool) {
	c.mu.Lock()
	c.full = full
	c.mu.Unlock()
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages decodes every recorded frame.
func (c *Conn) Messages() []core.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Outbound, 0, len(c.frames))
	for _, f := range c.frames {
		var m core.Outbound
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// OfType returns the recorded messages of one event type.
func (c *Conn) OfType(t core.EventType) []core.Outbound {
	var out []core.Outbound
	for _, m := range c.Messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (c *Conn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}
