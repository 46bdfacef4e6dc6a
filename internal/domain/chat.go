package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageID string

const MaxChatMessageLen = 1000

// ChatMessage is append-only; once stored it is never changed.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	RoomID    RoomID    `json:"roomId"`
	PlayerID  PlayerID  `json:"playerId"`
	Nickname  string    `json:"nickname"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatMessage(room RoomID, p *Player, text string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        MessageID(uuid.NewString()),
		RoomID:    room,
		PlayerID:  p.ID,
		Nickname:  p.Nickname,
		Text:      text,
		Timestamp: now,
	}
}
