package core

import (
	"slices"

	"github.com/dkeye/Poker/internal/domain"
)

// AddPlayer appends p in join order. The first player of a room becomes host.
func AddPlayer(r *domain.Room, p *domain.Player) {
	p.IsHost = len(r.Players) == 0
	r.Players = append(r.Players, p)
}

// RemoveResult describes what a removal changed.
type RemoveResult struct {
	Removed   *domain.Player
	NewHost   *domain.Player
	VotesFrom []domain.StoryID
	WasTyping bool
	RoomEmpty bool
}

// RemovePlayer drops the player, their open votes and typing state. If the
// host left and others remain, the first remaining player becomes host.
func RemovePlayer(r *domain.Room, id domain.PlayerID) (RemoveResult, bool) {
	p, idx := r.Player(id)
	if p == nil {
		return RemoveResult{}, false
	}
	res := RemoveResult{Removed: p}
	if _, ok := r.Typing[id]; ok {
		delete(r.Typing, id)
		res.WasTyping = true
	}
	res.VotesFrom = DropVotes(r.Stories, id)
	r.Players = slices.Delete(r.Players, idx, idx+1)

	if len(r.Players) == 0 {
		res.RoomEmpty = true
		return res, true
	}
	if p.IsHost {
		p.IsHost = false
		r.Players[0].IsHost = true
		res.NewHost = r.Players[0]
	}
	return res, true
}

// SwapHost moves the host flag from one player to another in one step.
func SwapHost(from, to *domain.Player) {
	from.IsHost = false
	to.IsHost = true
}

// PlayerByNickname matches case-insensitively.
func PlayerByNickname(r *domain.Room, nickname string) *domain.Player {
	k := nicknameKey(nickname)
	for _, p := range r.Players {
		if nicknameKey(p.Nickname) == k {
			return p
		}
	}
	return nil
}

func PlayerByConn(r *domain.Room, conn domain.ConnID) *domain.Player {
	for _, p := range r.Players {
		if p.ConnID == conn {
			return p
		}
	}
	return nil
}
