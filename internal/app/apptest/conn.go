// Package apptest provides an in-memory signal connection for tests.
package apptest

import (
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/protocol"
)

// Conn records every frame it is handed. Set Full to simulate a slow reader.
type Conn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func NewConn() *Conn { return &Conn{} }

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

func (c *Conn) SetFull(full bool) {
	c.mu.Lock()
	c.full = full
	c.mu.Unlock()
}

// Events decodes what was received so far.
func (c *Conn) Events() []protocol.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.Frame, 0, len(c.frames))
	for _, f := range c.frames {
		fr, err := protocol.DecodeFrame(f)
		if err == nil {
			out = append(out, fr)
		}
	}
	return out
}

// Types lists the received frame types in arrival order.
func (c *Conn) Types() []string {
	evs := c.Events()
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}

// Last returns the most recent frame of the given type.
func (c *Conn) Last(typ string) (protocol.Frame, bool) {
	evs := c.Events()
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == typ {
			return evs[i], true
		}
	}
	return protocol.Frame{}, false
}

func (c *Conn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}
