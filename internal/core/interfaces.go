package core

import (
	"errors"

	"github.com/dkeye/Poker/internal/domain"
)

// Frame is an encoded outbound message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Publisher fans events out to live connections. Implementations must not
// block: the coordinator publishes while it holds the room lock.
type Publisher interface {
	// Publish delivers ev to every connection attached to ev.Room except ev.Except.
	Publish(ev Event)
	// SendTo delivers ev to one connection regardless of room membership.
	SendTo(conn domain.ConnID, ev Event)
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Name        string        `json:"name"`
	PlayerCount int           `json:"playerCount"`
	StoryCount  int           `json:"storyCount"`
}

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)
