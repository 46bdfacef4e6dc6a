package core

import "github.com/dkeye/Poker/internal/domain"

// Ranks is the fixed card deck, in display order.
var Ranks = []domain.VoteValue{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89", "?"}

func ValidVote(v domain.VoteValue) bool {
	for _, r := range Ranks {
		if r == v {
			return true
		}
	}
	return false
}

// Story lifecycle:
//
//	voting -> revealed -> closed
//	voting|revealed -> skipped
//	voting|revealed -> voting (restart, clears votes)
//
// closed and skipped are terminal.

func CanAcceptVotes(s *domain.Story) bool { return s.Status == domain.StoryVoting }

func IsTerminal(s *domain.Story) bool {
	return s.Status == domain.StoryClosed || s.Status == domain.StorySkipped
}

// CastVote upserts the player's vote; the last write wins.
func CastVote(s *domain.Story, p *domain.Player, v domain.VoteValue) error {
	if p.IsSpectator {
		return ErrSpectatorForbidden
	}
	if !CanAcceptVotes(s) {
		return ErrStoryNotVoting
	}
	if !ValidVote(v) {
		return ErrInvalidValue
	}
	s.Votes[p.ID] = v
	return nil
}

func Reveal(s *domain.Story) error {
	if s.Status != domain.StoryVoting {
		return ErrInvalidTransition
	}
	s.Status = domain.StoryRevealed
	return nil
}

// Restart reopens voting with cleared votes. Skipped stories are terminal
// like closed ones and are rejected.
func Restart(s *domain.Story) error {
	if IsTerminal(s) {
		return ErrInvalidTransition
	}
	s.Votes = make(map[domain.PlayerID]domain.VoteValue)
	s.Status = domain.StoryVoting
	return nil
}

// Close records the agreed estimate. Votes are frozen from here on.
func Close(s *domain.Story, point domain.VoteValue) error {
	if s.Status != domain.StoryRevealed {
		return ErrInvalidTransition
	}
	if !ValidVote(point) {
		return ErrInvalidValue
	}
	s.FinalPoint = &point
	s.Status = domain.StoryClosed
	return nil
}

// Skip leaves existing votes in place.
func Skip(s *domain.Story) error {
	if IsTerminal(s) {
		return ErrInvalidTransition
	}
	s.Status = domain.StorySkipped
	return nil
}

// DropVotes removes a departing player's votes from stories still being
// voted on. Revealed, closed and skipped results are history and stay.
func DropVotes(stories []*domain.Story, id domain.PlayerID) []domain.StoryID {
	var touched []domain.StoryID
	for _, s := range stories {
		if !CanAcceptVotes(s) {
			continue
		}
		if _, ok := s.Votes[id]; ok {
			delete(s.Votes, id)
			touched = append(touched, s.ID)
		}
	}
	return touched
}
