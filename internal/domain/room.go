package domain

import "time"

type RoomID string

type (
	SortOption   string
	FilterOption string
)

const (
	SortManual SortOption = "manual"
	SortTitle  SortOption = "title"
	SortStatus SortOption = "status"
	SortPoints SortOption = "points"

	FilterAll       FilterOption = "all"
	FilterPending   FilterOption = "pending"
	FilterEstimated FilterOption = "estimated"
	FilterSkipped   FilterOption = "skipped"
)

type BacklogSettings struct {
	SortOption   SortOption   `json:"sortOption"`
	FilterOption FilterOption `json:"filterOption"`
}

func DefaultBacklogSettings() BacklogSettings {
	return BacklogSettings{SortOption: SortManual, FilterOption: FilterAll}
}

type TypingIndicator struct {
	PlayerID  PlayerID  `json:"playerId"`
	Nickname  string    `json:"nickname"`
	StartedAt time.Time `json:"startedAt"`
}

// Room is the aggregate root of one estimation session.
// Players keep join order; exactly one of them is host while the list is non-empty.
type Room struct {
	ID             RoomID
	Name           string
	Players        []*Player
	Stories        []*Story
	CurrentStoryID StoryID
	ChatMessages   []ChatMessage
	Typing         map[PlayerID]TypingIndicator
	Backlog        BacklogSettings
	CreatedAt      time.Time
}

func NewRoom(id RoomID, name string, now time.Time) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Typing:    make(map[PlayerID]TypingIndicator),
		Backlog:   DefaultBacklogSettings(),
		CreatedAt: now,
	}
}

func (r *Room) Player(id PlayerID) (*Player, int) {
	for i, p := range r.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

func (r *Room) Story(id StoryID) *Story {
	for _, s := range r.Stories {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *Room) Nicknames() []string {
	out := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, p.Nickname)
	}
	return out
}
