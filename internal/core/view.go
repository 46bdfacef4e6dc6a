package core

import (
	"slices"
	"time"

	"github.com/dkeye/Poker/internal/domain"
)

// Views are the read-only wire shape of a room. They never carry transport
// fields and are built while the room lock is held.

type PlayerView struct {
	ID          domain.PlayerID `json:"id"`
	Nickname    string          `json:"nickname"`
	IsHost      bool            `json:"isHost"`
	IsSpectator bool            `json:"isSpectator"`
}

type VoteView struct {
	PlayerID domain.PlayerID  `json:"playerId"`
	Value    domain.VoteValue `json:"value,omitempty"`
}

type StoryView struct {
	ID          domain.StoryID      `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      domain.StoryStatus  `json:"status"`
	Votes       []VoteView          `json:"votes"`
	FinalPoint  *domain.VoteValue   `json:"finalPoint,omitempty"`
	External    *domain.ExternalRef `json:"external,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type RoomView struct {
	ID             domain.RoomID            `json:"id"`
	Name           string                   `json:"name"`
	Players        []PlayerView             `json:"players"`
	Stories        []StoryView              `json:"stories"`
	CurrentStoryID domain.StoryID           `json:"currentStoryId,omitempty"`
	Backlog        domain.BacklogSettings   `json:"backlogSettings"`
	Typing         []domain.TypingIndicator `json:"typing"`
	CreatedAt      time.Time                `json:"createdAt"`
}

func NewPlayerView(p *domain.Player) PlayerView {
	return PlayerView{ID: p.ID, Nickname: p.Nickname, IsHost: p.IsHost, IsSpectator: p.IsSpectator}
}

// NewStoryView masks vote values while the story is still open, so that
// only who has voted is visible before the reveal.
func NewStoryView(s *domain.Story, order []*domain.Player) StoryView {
	v := StoryView{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      s.Status,
		Votes:       make([]VoteView, 0, len(s.Votes)),
		FinalPoint:  s.FinalPoint,
		External:    s.External,
		CreatedAt:   s.CreatedAt,
	}
	masked := s.Status == domain.StoryVoting
	seen := make(map[domain.PlayerID]bool, len(s.Votes))
	appendVote := func(id domain.PlayerID, val domain.VoteValue) {
		if masked {
			val = ""
		}
		v.Votes = append(v.Votes, VoteView{PlayerID: id, Value: val})
		seen[id] = true
	}
	for _, p := range order {
		if val, ok := s.Votes[p.ID]; ok {
			appendVote(p.ID, val)
		}
	}
	// votes of players who already left stay part of the record
	var gone []domain.PlayerID
	for id := range s.Votes {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		appendVote(id, s.Votes[id])
	}
	return v
}

func NewRoomView(r *domain.Room) RoomView {
	v := RoomView{
		ID:             r.ID,
		Name:           r.Name,
		Players:        make([]PlayerView, 0, len(r.Players)),
		Stories:        make([]StoryView, 0, len(r.Stories)),
		CurrentStoryID: r.CurrentStoryID,
		Backlog:        r.Backlog,
		Typing:         make([]domain.TypingIndicator, 0, len(r.Typing)),
		CreatedAt:      r.CreatedAt,
	}
	for _, p := range r.Players {
		v.Players = append(v.Players, NewPlayerView(p))
	}
	for _, s := range r.Stories {
		v.Stories = append(v.Stories, NewStoryView(s, r.Players))
	}
	for _, p := range r.Players {
		if t, ok := r.Typing[p.ID]; ok {
			v.Typing = append(v.Typing, t)
		}
	}
	return v
}
