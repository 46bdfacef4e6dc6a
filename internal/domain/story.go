package domain

import (
	"time"

	"github.com/google/uuid"
)

type (
	StoryID   string
	VoteValue string
)

type StoryStatus string

const (
	StoryVoting   StoryStatus = "voting"
	StoryRevealed StoryStatus = "revealed"
	StoryClosed   StoryStatus = "closed"
	StorySkipped  StoryStatus = "skipped"
)

// ExternalRef points at the issue tracker item a story was imported from.
type ExternalRef struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

type Story struct {
	ID          StoryID
	Title       string
	Description string
	Status      StoryStatus
	Votes       map[PlayerID]VoteValue
	FinalPoint  *VoteValue
	External    *ExternalRef
	CreatedAt   time.Time
}

func NewStory(title, description string, ext *ExternalRef, now time.Time) *Story {
	return &Story{
		ID:          StoryID(uuid.NewString()),
		Title:       title,
		Description: description,
		Status:      StoryVoting,
		Votes:       make(map[PlayerID]VoteValue),
		External:    ext,
		CreatedAt:   now,
	}
}
