package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/domain"
)

func roomWith(nicks ...string) (*domain.Room, []*domain.Player) {
	r := domain.NewRoom("ROOM22", "Sprint 12", time.Unix(0, 0))
	var ps []*domain.Player
	for i, n := range nicks {
		p := domain.NewPlayer(n, domain.ConnID(n+string(rune('a'+i))), false)
		AddPlayer(r, p)
		ps = append(ps, p)
	}
	return r, ps
}

func TestAddPlayerFirstIsHost(t *testing.T) {
	r, ps := roomWith("Alice", "Bob")
	assert.True(t, ps[0].IsHost)
	assert.False(t, ps[1].IsHost)
	assert.Same(t, ps[0], r.Host())
}

func TestRemoveHostPromotesFirstRemaining(t *testing.T) {
	r, ps := roomWith("Alice", "Bob", "Carol")
	s := domain.NewStory("API", "", nil, time.Unix(0, 0))
	r.Stories = append(r.Stories, s)
	require.NoError(t, CastVote(s, ps[0], "5"))
	r.Typing[ps[0].ID] = domain.TypingIndicator{PlayerID: ps[0].ID, Nickname: "Alice"}

	res, ok := RemovePlayer(r, ps[0].ID)
	require.True(t, ok)
	assert.Same(t, ps[1], res.NewHost)
	assert.True(t, ps[1].IsHost)
	assert.True(t, res.WasTyping)
	assert.Equal(t, []domain.StoryID{s.ID}, res.VotesFrom)
	assert.False(t, res.RoomEmpty)
	assert.Len(t, r.Players, 2)
	assert.Empty(t, r.Typing)
}

func TestRemoveNonHostKeepsHost(t *testing.T) {
	r, ps := roomWith("Alice", "Bob")
	res, ok := RemovePlayer(r, ps[1].ID)
	require.True(t, ok)
	assert.Nil(t, res.NewHost)
	assert.True(t, ps[0].IsHost)

	_, ok = RemovePlayer(r, ps[1].ID)
	assert.False(t, ok)
}

func TestRemoveLastPlayerEmptiesRoom(t *testing.T) {
	r, ps := roomWith("Solo")
	res, ok := RemovePlayer(r, ps[0].ID)
	require.True(t, ok)
	assert.True(t, res.RoomEmpty)
	assert.Nil(t, res.NewHost)
}

func TestSwapHostAndLookups(t *testing.T) {
	r, ps := roomWith("Alice", "Bob")
	SwapHost(ps[0], ps[1])
	assert.Same(t, ps[1], r.Host())

	assert.Same(t, ps[1], PlayerByNickname(r, "BOB"))
	assert.Nil(t, PlayerByNickname(r, "Zed"))
	assert.Same(t, ps[0], PlayerByConn(r, ps[0].ConnID))
}

func TestRoomServiceDestroyedWhenEmpty(t *testing.T) {
	r, ps := roomWith("Solo")
	svc := NewRoomService(r)
	assert.Equal(t, 1, svc.Info().PlayerCount)

	require.NoError(t, svc.Do(func(r *domain.Room) error {
		_, _ = RemovePlayer(r, ps[0].ID)
		return nil
	}))
	err := svc.Do(func(*domain.Room) error { return nil })
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
