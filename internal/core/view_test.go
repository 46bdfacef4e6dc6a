package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/domain"
)

func TestStoryViewMasksWhileVoting(t *testing.T) {
	r, ps := roomWith("Alice", "Bob")
	s := domain.NewStory("Search", "", nil, time.Unix(0, 0))
	r.Stories = append(r.Stories, s)
	require.NoError(t, CastVote(s, ps[1], "8"))
	require.NoError(t, CastVote(s, ps[0], "3"))

	v := NewStoryView(s, r.Players)
	require.Len(t, v.Votes, 2)
	assert.Equal(t, ps[0].ID, v.Votes[0].PlayerID, "votes follow player order")
	for _, vv := range v.Votes {
		assert.Empty(t, vv.Value)
	}

	require.NoError(t, Reveal(s))
	v = NewStoryView(s, r.Players)
	assert.Equal(t, domain.VoteValue("3"), v.Votes[0].Value)
	assert.Equal(t, domain.VoteValue("8"), v.Votes[1].Value)
}

func TestStoryViewKeepsVotesOfDepartedPlayers(t *testing.T) {
	r, ps := roomWith("Alice", "Bob")
	s := domain.NewStory("Search", "", nil, time.Unix(0, 0))
	require.NoError(t, CastVote(s, ps[1], "5"))
	require.NoError(t, Reveal(s))
	require.NoError(t, Close(s, "5"))
	r.Stories = append(r.Stories, s)
	_, _ = RemovePlayer(r, ps[1].ID)

	v := NewRoomView(r)
	require.Len(t, v.Stories, 1)
	require.Len(t, v.Stories[0].Votes, 1)
	assert.Equal(t, ps[1].ID, v.Stories[0].Votes[0].PlayerID)
	assert.Equal(t, domain.VoteValue("5"), v.Stories[0].Votes[0].Value)
	assert.Len(t, v.Players, 1)
}

func TestErrorFromCode(t *testing.T) {
	err := ErrorFromCode("nickname_conflict", "", []string{"Bob2"})
	assert.True(t, errors.Is(err, ErrNicknameConflict))
	var conflict *NicknameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"Bob2"}, conflict.Suggestions)

	assert.ErrorIs(t, ErrorFromCode("not_host", "", nil), ErrNotHost)
	assert.ErrorIs(t, ErrorFromCode("invalid_room_name", "", nil), ErrInvalidRoomName)
	assert.EqualError(t, ErrorFromCode("weird", "boom", nil), "boom")

	ce, ok := AsError(&NicknameConflictError{Nickname: "x"})
	require.True(t, ok)
	assert.Equal(t, KindStateConflict, ce.Kind)
}
