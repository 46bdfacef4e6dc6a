// Package archive keeps finished estimation results after their room is
// gone. Writes are fire-and-forget: the real-time path enqueues and moves on,
// and a failed write is logged and dropped.
package archive

import (
	"time"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

type StoryRecord struct {
	RoomID     domain.RoomID  `json:"roomId"`
	Story      core.StoryView `json:"story"`
	FinishedAt time.Time      `json:"finishedAt"`
}

type RoomRecord struct {
	Room     core.RoomView        `json:"room"`
	Chat     []domain.ChatMessage `json:"chat"`
	ClosedAt time.Time            `json:"closedAt"`
}

// Sink must not block the caller.
type Sink interface {
	StoryFinished(StoryRecord)
	ChatPosted(domain.ChatMessage)
	RoomClosed(RoomRecord)
}

type Nop struct{}

func (Nop) StoryFinished(StoryRecord)     {}
func (Nop) ChatPosted(domain.ChatMessage) {}
func (Nop) RoomClosed(RoomRecord)         {}
