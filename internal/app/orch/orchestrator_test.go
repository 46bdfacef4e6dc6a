package orch

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

func TestCreateRoomMakesHost(t *testing.T) {
	h := newHarness(t)
	alice := h.connect("a")

	res := h.create("a", "Alice")
	assert.True(t, res.Player.IsHost)
	assert.Equal(t, "Alice's room", res.Room.Name)
	assert.Len(t, string(res.Room.ID), core.RoomCodeLen)
	assert.Equal(t, []string{string(core.EvRoomCreated)}, alice.Types())

	id, ok := h.reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, res.Room.ID, id.RoomID)
}

func TestHostDisconnectPromotesNextPlayer(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	bob := h.connect("b")
	room := h.create("a", "Alice").Room.ID
	bobRes := h.join("b", room, "Bob")
	assert.False(t, bobRes.Player.IsHost)
	bob.Reset()

	h.o.Disconnect("a")

	assert.Equal(t, []string{string(core.EvHostChanged), string(core.EvPlayerLeft)}, bob.Types())
	f, _ := bob.Last(string(core.EvHostChanged))
	hc := payload[core.HostChangedPayload](t, f)
	assert.Equal(t, core.HostDisconnected, hc.Reason)
	assert.Equal(t, bobRes.Player.ID, hc.NewHostID)

	view, err := h.o.SyncRoom("b")
	require.NoError(t, err)
	require.Len(t, view.Players, 1)
	assert.True(t, view.Players[0].IsHost)
	assert.Equal(t, 1, h.reg.Len())
}

func TestExplicitLeaveUsesHostLeftReason(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	bob := h.connect("b")
	room := h.create("a", "Alice").Room.ID
	h.join("b", room, "Bob")

	require.NoError(t, h.o.LeaveRoom("a"))
	f, ok := bob.Last(string(core.EvHostChanged))
	require.True(t, ok)
	assert.Equal(t, core.HostLeft, payload[core.HostChangedPayload](t, f).Reason)

	_, err := h.o.SyncRoom("a")
	assert.ErrorIs(t, err, core.ErrNotInRoom)
}

func TestJoinNicknameConflict(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("b")
	room := h.create("a", "Dup").Room.ID

	_, err := h.o.JoinRoom("b", string(room), "dup", false)
	require.ErrorIs(t, err, core.ErrNicknameConflict)
	var conflict *core.NicknameConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"dup2", "dup_", "New_dup"}, conflict.Suggestions)

	info, ok := h.o.RoomInfo(string(room))
	require.True(t, ok)
	assert.Equal(t, 1, info.PlayerCount)
	_, mapped := h.reg.Lookup("b")
	assert.False(t, mapped)
}

func TestJoinUnknownRoom(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	_, err := h.o.JoinRoom("a", "NOPE22", "Alice", false)
	assert.ErrorIs(t, err, core.ErrRoomNotFound)
}

func TestJoinNormalizesRoomCodeAndIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("b")
	room := h.create("a", "Alice").Room.ID

	first := h.join("b", domain.RoomID(" "+string(room)+" "), "Bob")
	again, err := h.o.JoinRoom("b", string(room), "Bob", false)
	require.NoError(t, err)
	assert.Equal(t, first.Player.ID, again.Player.ID)
	assert.Len(t, again.Room.Players, 2)
}

func TestJoinElsewhereLeavesPreviousRoom(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("b")
	h.connect("c")
	r1 := h.create("a", "Alice").Room.ID
	r2 := h.create("c", "Carol").Room.ID
	h.join("b", r1, "Bob")

	h.join("b", r2, "Bob")

	info, _ := h.o.RoomInfo(string(r1))
	assert.Equal(t, 1, info.PlayerCount)
	info, _ = h.o.RoomInfo(string(r2))
	assert.Equal(t, 2, info.PlayerCount)
	assert.Len(t, h.reg.Members(r1), 1)
}

func TestSpectatorJoinAndVote(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("s")
	room := h.create("a", "Alice").Room.ID
	res := h.join("s", room, "Team Observer")
	assert.True(t, res.Player.IsSpectator)

	story, err := h.o.CreateStory("a", StoryInput{Title: "Checkout"})
	require.NoError(t, err)
	assert.ErrorIs(t, h.o.Vote("s", story.ID, "5"), core.ErrSpectatorForbidden)
}

func TestVotingRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	bob := h.connect("b")
	room := h.create("a", "Alice").Room.ID
	h.join("b", room, "Bob")

	story, err := h.o.CreateStory("a", StoryInput{Title: "  Checkout  ", Description: "pay flow"})
	require.NoError(t, err)
	assert.Equal(t, "Checkout", story.Title)
	require.NoError(t, h.o.SelectStory("a", story.ID))

	bob.Reset()
	require.NoError(t, h.o.Vote("a", story.ID, "8"))
	f, ok := bob.Last(string(core.EvStoryUpdated))
	require.True(t, ok)
	upd := payload[core.StoryPayload](t, f)
	require.Len(t, upd.Story.Votes, 1)
	assert.Empty(t, upd.Story.Votes[0].Value, "value hidden before reveal")

	require.NoError(t, h.o.Vote("b", story.ID, "5"))
	_, err = h.o.RevealVotes("b", story.ID)
	assert.ErrorIs(t, err, core.ErrNotHost)

	revealed, err := h.o.RevealVotes("a", story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryRevealed, revealed.Status)
	assert.Equal(t, domain.VoteValue("8"), revealed.Votes[0].Value)

	assert.ErrorIs(t, h.o.Vote("b", story.ID, "3"), core.ErrStoryNotVoting)

	closed, err := h.o.SetFinalPoint("a", story.ID, "8")
	require.NoError(t, err)
	assert.Equal(t, domain.StoryClosed, closed.Status)
	require.Len(t, h.sink.stories, 1)
	assert.Equal(t, story.ID, h.sink.stories[0].Story.ID)

	_, err = h.o.RestartVoting("a", story.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestRestartClearsVotes(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("b")
	room := h.create("a", "Alice").Room.ID
	h.join("b", room, "Bob")
	story, err := h.o.CreateStory("a", StoryInput{Title: "Search"})
	require.NoError(t, err)

	require.NoError(t, h.o.Vote("b", story.ID, "13"))
	_, err = h.o.RevealVotes("a", story.ID)
	require.NoError(t, err)
	restarted, err := h.o.RestartVoting("a", story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryVoting, restarted.Status)
	assert.Empty(t, restarted.Votes)

	skipped, err := h.o.SkipStory("a", story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StorySkipped, skipped.Status)
	_, err = h.o.SkipStory("a", story.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestKickMidVoteKeepsFinishedVotes(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	bob := h.connect("b")
	carol := h.connect("c")
	room := h.create("a", "Alice").Room.ID
	bobID := h.join("b", room, "Bob").Player.ID
	h.join("c", room, "Carol")

	done, err := h.o.CreateStory("a", StoryInput{Title: "Done"})
	require.NoError(t, err)
	require.NoError(t, h.o.Vote("b", done.ID, "3"))
	_, err = h.o.RevealVotes("a", done.ID)
	require.NoError(t, err)
	_, err = h.o.SetFinalPoint("a", done.ID, "3")
	require.NoError(t, err)

	open, err := h.o.CreateStory("a", StoryInput{Title: "Open"})
	require.NoError(t, err)
	require.NoError(t, h.o.Vote("b", open.ID, "5"))
	carol.Reset()

	assert.ErrorIs(t, h.o.KickPlayer("b", bobID), core.ErrNotHost)
	require.NoError(t, h.o.KickPlayer("a", bobID))

	_, ok := bob.Last(string(core.EvPlayerKicked))
	assert.True(t, ok)
	assert.Equal(t, []string{string(core.EvStoryUpdated), string(core.EvPlayerLeft)}, carol.Types())
	f, _ := carol.Last(string(core.EvPlayerLeft))
	left := payload[core.PlayerLeftPayload](t, f)
	assert.True(t, left.Kicked)

	view, err := h.o.SyncRoom("a")
	require.NoError(t, err)
	require.Len(t, view.Stories, 2)
	require.Len(t, view.Stories[0].Votes, 1)
	assert.Equal(t, bobID, view.Stories[0].Votes[0].PlayerID)
	assert.Empty(t, view.Stories[1].Votes)

	assert.ErrorIs(t, h.o.Vote("b", open.ID, "8"), core.ErrNotInRoom)
	assert.ErrorIs(t, h.o.KickPlayer("a", bobID), core.ErrTargetNotFound)
}

func TestHostDelegation(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	bob := h.connect("b")
	room := h.create("a", "Alice").Room.ID
	aliceID, _ := h.reg.Lookup("a")
	bobID := h.join("b", room, "Bob").Player.ID

	assert.ErrorIs(t, h.o.TransferHost("a", "alice"), core.ErrSelfTarget)
	assert.ErrorIs(t, h.o.TransferHost("a", "Zed"), core.ErrTargetNotFound)
	require.NoError(t, h.o.TransferHost("a", "BOB"))

	f, ok := bob.Last(string(core.EvHostChanged))
	require.True(t, ok)
	hc := payload[core.HostChangedPayload](t, f)
	assert.Equal(t, core.HostDelegated, hc.Reason)
	assert.Equal(t, bobID, hc.NewHostID)

	assert.ErrorIs(t, h.o.DelegateHost("a", bobID), core.ErrNotHost)
	require.NoError(t, h.o.DelegateHost("b", aliceID.PlayerID))

	view, _ := h.o.SyncRoom("a")
	hosts := 0
	for _, p := range view.Players {
		if p.IsHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)
}

func TestBacklogSettings(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.create("a", "Alice")

	assert.ErrorIs(t, h.o.UpdateBacklogSettings("a", domain.BacklogSettings{SortOption: "random", FilterOption: domain.FilterAll}), core.ErrInvalidValue)
	want := domain.BacklogSettings{SortOption: domain.SortPoints, FilterOption: domain.FilterPending}
	require.NoError(t, h.o.UpdateBacklogSettings("a", want))
	view, _ := h.o.SyncRoom("a")
	assert.Equal(t, want, view.Backlog)
}

func TestChatAndTyping(t *testing.T) {
	h := newHarness(t)
	alice := h.connect("a")
	bob := h.connect("b")
	room := h.create("a", "Alice").Room.ID
	h.join("b", room, "Bob")
	alice.Reset()
	bob.Reset()

	require.NoError(t, h.o.StartTyping("b"))
	assert.Equal(t, []string{string(core.EvTypingStart)}, alice.Types())
	assert.Empty(t, bob.Types(), "typing is not echoed to the typist")

	_, err := h.o.SendChatMessage("b", "   ")
	assert.ErrorIs(t, err, core.ErrInvalidMessage)

	msg, err := h.o.SendChatMessage("b", " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, []string{string(core.EvTypingStart), string(core.EvTypingStop), string(core.EvChatMessage)}, alice.Types())
	assert.Equal(t, []string{string(core.EvChatMessage)}, bob.Types())

	history, err := h.o.ChatHistory("a")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Bob", history[0].Nickname)
	assert.Len(t, h.sink.chat, 1)

	view, _ := h.o.SyncRoom("a")
	assert.Empty(t, view.Typing)
}

func TestLastPlayerLeavingDestroysRoom(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	room := h.create("a", "Alice").Room.ID

	h.o.Disconnect("a")

	_, ok := h.o.RoomInfo(string(room))
	assert.False(t, ok)
	assert.Equal(t, 0, h.rooms.Len())
	require.Len(t, h.sink.rooms, 1)
	assert.Equal(t, room, h.sink.rooms[0].Room.ID)
	assert.Equal(t, 0, h.reg.Len())
}

func TestConcurrentJoinsKeepOneHostAndUniqueNames(t *testing.T) {
	h := newHarness(t)
	h.connect("host")
	room := h.create("host", "Host").Room.ID

	const n = 32
	var wg sync.WaitGroup
	var sameOK atomic.Int32
	for i := range n {
		unique := domain.ConnID(fmt.Sprintf("u%d", i))
		same := domain.ConnID(fmt.Sprintf("s%d", i))
		h.connect(unique)
		h.connect(same)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := h.o.JoinRoom(unique, string(room), fmt.Sprintf("Player%d", i), false)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			if _, err := h.o.JoinRoom(same, string(room), "Twin", false); err == nil {
				sameOK.Add(1)
			} else {
				assert.ErrorIs(t, err, core.ErrNicknameConflict)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sameOK.Load())
	view, err := h.o.SyncRoom("host")
	require.NoError(t, err)
	assert.Len(t, view.Players, n+2)
	hosts := 0
	for _, p := range view.Players {
		if p.IsHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)
	assert.Len(t, h.reg.Members(room), n+2)
}

func TestHostHandoverThenEstimateScenario(t *testing.T) {
	h := newHarness(t)
	h.connect("alice-1")
	h.connect("bob")
	room := h.create("alice-1", "Alice").Room.ID
	h.join("bob", room, "Bob")
	h.o.Disconnect("alice-1")

	// Alice comes back on a new connection with the same nickname
	h.connect("alice-2")
	alice := h.join("alice-2", room, "Alice")
	assert.False(t, alice.Player.IsHost)

	s1, err := h.o.CreateStory("bob", StoryInput{Title: "S1"})
	require.NoError(t, err)
	require.NoError(t, h.o.SelectStory("bob", s1.ID))
	require.NoError(t, h.o.Vote("alice-2", s1.ID, "5"))

	revealed, err := h.o.RevealVotes("bob", s1.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryRevealed, revealed.Status)
	assert.Equal(t, []core.VoteView{{PlayerID: alice.Player.ID, Value: "5"}}, revealed.Votes)

	closed, err := h.o.SetFinalPoint("bob", s1.ID, "5")
	require.NoError(t, err)
	assert.Equal(t, domain.StoryClosed, closed.Status)

	_, err = h.o.SkipStory("bob", s1.ID)
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
}

func TestSpectatorVoteOnUnknownStory(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("s")
	room := h.create("a", "Alice").Room.ID
	h.join("s", room, "Viewer")

	assert.ErrorIs(t, h.o.Vote("s", "missing", "5"), core.ErrStoryNotFound)
}

func TestCreateRoomNormalizesName(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("b")
	h.connect("c")

	res, err := h.o.CreateRoom("a", "Alice", "  Sprint 42  ")
	require.NoError(t, err)
	assert.Equal(t, "Sprint 42", res.Room.Name)

	res, err = h.o.CreateRoom("b", "Bob", "   ")
	require.NoError(t, err)
	assert.Equal(t, "Bob's room", res.Room.Name)

	_, err = h.o.CreateRoom("c", "Carol", strings.Repeat("r", maxTitleLen+1))
	assert.ErrorIs(t, err, core.ErrInvalidRoomName)
	_, ok := h.reg.Lookup("c")
	assert.False(t, ok)
}

func TestRejoinSpectatorFlagNotCarried(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.connect("s1")
	h.connect("s1b")
	h.connect("s2")
	room := h.create("a", "Alice").Room.ID

	res, err := h.o.JoinRoom("s1", string(room), "Dana", true)
	require.NoError(t, err)
	assert.True(t, res.Player.IsSpectator)
	h.o.Disconnect("s1")

	assert.False(t, h.join("s1b", room, "Dana").Player.IsSpectator)
	assert.True(t, h.join("s2", room, "Dana Viewer").Player.IsSpectator)
}
