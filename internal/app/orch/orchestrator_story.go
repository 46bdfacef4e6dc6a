package orch

import (
	"strings"
	"unicode/utf8"

	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const maxTitleLen = 200

type StoryInput struct {
	Title       string
	Description string
	External    *domain.ExternalRef
}

func normalizeTitle(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" || utf8.RuneCountInString(t) > maxTitleLen {
		return "", core.ErrInvalidTitle
	}
	return t, nil
}

func (o *Orchestrator) CreateStory(conn domain.ConnID, in StoryInput) (core.StoryView, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return core.StoryView{}, err
	}
	var view core.StoryView
	err = o.withHost(conn, func(r *domain.Room, _ *domain.Player) error {
		s := domain.NewStory(title, strings.TrimSpace(in.Description), in.External, o.now())
		r.Stories = append(r.Stories, s)
		view = core.NewStoryView(s, r.Players)
		o.publish(core.Event{Name: core.EvStoryCreated, Room: r.ID, Payload: core.StoryPayload{Story: view}})
		return nil
	})
	return view, err
}

func (o *Orchestrator) SelectStory(conn domain.ConnID, id domain.StoryID) error {
	return o.withHost(conn, func(r *domain.Room, _ *domain.Player) error {
		if r.Story(id) == nil {
			return core.ErrStoryNotFound
		}
		r.CurrentStoryID = id
		o.publish(core.Event{Name: core.EvStorySelected, Room: r.ID, Payload: core.StorySelectedPayload{StoryID: id}})
		return nil
	})
}

func (o *Orchestrator) UpdateStory(conn domain.ConnID, id domain.StoryID, title, description string) (core.StoryView, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return core.StoryView{}, err
	}
	var view core.StoryView
	err = o.withHost(conn, func(r *domain.Room, _ *domain.Player) error {
		s := r.Story(id)
		if s == nil {
			return core.ErrStoryNotFound
		}
		s.Title = t
		s.Description = strings.TrimSpace(description)
		view = core.NewStoryView(s, r.Players)
		o.publish(core.Event{Name: core.EvStoryUpdated, Room: r.ID, Payload: core.StoryPayload{Story: view}})
		return nil
	})
	return view, err
}

// Vote upserts conn's vote on a story that is still being voted on.
func (o *Orchestrator) Vote(conn domain.ConnID, id domain.StoryID, value domain.VoteValue) error {
	return o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		s := r.Story(id)
		if s == nil {
			return core.ErrStoryNotFound
		}
		if err := core.CastVote(s, me, value); err != nil {
			return err
		}
		o.publish(core.Event{Name: core.EvStoryUpdated, Room: r.ID, Payload: core.StoryPayload{Story: core.NewStoryView(s, r.Players)}})
		return nil
	})
}

// transition applies a host-only status change and emits name on success.
func (o *Orchestrator) transition(conn domain.ConnID, id domain.StoryID, name core.EventName, apply func(*domain.Story) error) (core.StoryView, error) {
	var view core.StoryView
	err := o.withHost(conn, func(r *domain.Room, _ *domain.Player) error {
		s := r.Story(id)
		if s == nil {
			return core.ErrStoryNotFound
		}
		if err := apply(s); err != nil {
			return err
		}
		view = core.NewStoryView(s, r.Players)
		o.publish(core.Event{Name: name, Room: r.ID, Payload: core.StoryPayload{Story: view}})
		if core.IsTerminal(s) {
			o.Archive.StoryFinished(archive.StoryRecord{RoomID: r.ID, Story: view, FinishedAt: o.now()})
		}
		return nil
	})
	return view, err
}

func (o *Orchestrator) RevealVotes(conn domain.ConnID, id domain.StoryID) (core.StoryView, error) {
	return o.transition(conn, id, core.EvVotesRevealed, core.Reveal)
}

func (o *Orchestrator) RestartVoting(conn domain.ConnID, id domain.StoryID) (core.StoryView, error) {
	return o.transition(conn, id, core.EvVotingRestarted, core.Restart)
}

func (o *Orchestrator) SetFinalPoint(conn domain.ConnID, id domain.StoryID, point domain.VoteValue) (core.StoryView, error) {
	return o.transition(conn, id, core.EvStoryUpdated, func(s *domain.Story) error {
		return core.Close(s, point)
	})
}

func (o *Orchestrator) SkipStory(conn domain.ConnID, id domain.StoryID) (core.StoryView, error) {
	return o.transition(conn, id, core.EvStorySkipped, core.Skip)
}

var (
	sortOptions = map[domain.SortOption]bool{
		domain.SortManual: true, domain.SortTitle: true, domain.SortStatus: true, domain.SortPoints: true,
	}
	filterOptions = map[domain.FilterOption]bool{
		domain.FilterAll: true, domain.FilterPending: true, domain.FilterEstimated: true, domain.FilterSkipped: true,
	}
)

// UpdateBacklogSettings replaces the room-wide sort and filter. Clients
// render from this value only.
func (o *Orchestrator) UpdateBacklogSettings(conn domain.ConnID, settings domain.BacklogSettings) error {
	return o.withHost(conn, func(r *domain.Room, _ *domain.Player) error {
		if !sortOptions[settings.SortOption] || !filterOptions[settings.FilterOption] {
			return core.ErrInvalidValue
		}
		r.Backlog = settings
		o.publish(core.Event{Name: core.EvBacklogSettings, Room: r.ID, Payload: settings})
		return nil
	})
}
