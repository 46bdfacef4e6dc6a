// Package domain contains entity without logic, just meta-data
package domain

import "github.com/google/uuid"

const MaxNicknameLen = 36

type (
	PlayerID string
	ConnID   string
)

// Player is a room member. ConnID changes across reconnects, ID does not.
type Player struct {
	ID          PlayerID `json:"id"`
	Nickname    string   `json:"nickname"`
	ConnID      ConnID   `json:"-"`
	IsHost      bool     `json:"isHost"`
	IsSpectator bool     `json:"isSpectator"`
}

// NewPlayer expects an already normalized nickname.
func NewPlayer(nickname string, conn ConnID, spectator bool) *Player {
	return &Player{
		ID:          PlayerID(uuid.NewString()),
		Nickname:    nickname,
		ConnID:      conn,
		IsSpectator: spectator,
	}
}

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}
