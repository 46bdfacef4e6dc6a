package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/apptest"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/protocol"
)

func newTestController(t *testing.T) *SignalWSController {
	t.Helper()
	reg := app.NewRegistry()
	o := orch.New(reg, app.NewRoomManager(nil), app.NewHub(reg, nil), nil)
	return NewSignalWSController(o, Options{ChatLimit: 2, ChatInterval: time.Minute})
}

func TestDispatchRoutesIntents(t *testing.T) {
	ctl := newTestController(t)
	ctl.Orch.Registry.Bind("a", apptest.NewConn(), nil)

	out, err := ctl.dispatch("a", protocol.CreateRoom{Nickname: "Alice"})
	require.NoError(t, err)
	res, ok := out.(orch.JoinResult)
	require.True(t, ok)
	assert.True(t, res.Player.IsHost)

	out, err = ctl.dispatch("a", protocol.CreateStory{Title: "Login"})
	require.NoError(t, err)
	story := out.(core.StoryView)

	_, err = ctl.dispatch("a", protocol.Vote{StoryID: story.ID, Value: "5"})
	require.NoError(t, err)
	out, err = ctl.dispatch("a", protocol.RevealVotes{StoryID: story.ID})
	require.NoError(t, err)
	assert.Equal(t, "5", string(out.(core.StoryView).Votes[0].Value))

	_, err = ctl.dispatch("a", protocol.SetFinalPoint{StoryID: story.ID, Value: "99"})
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

func TestDispatchRateLimitsChat(t *testing.T) {
	ctl := newTestController(t)
	ctl.Orch.Registry.Bind("a", apptest.NewConn(), nil)
	_, err := ctl.dispatch("a", protocol.CreateRoom{Nickname: "Alice"})
	require.NoError(t, err)

	for range 2 {
		_, err = ctl.dispatch("a", protocol.SendChatMessage{Text: "hi"})
		require.NoError(t, err)
	}
	_, err = ctl.dispatch("a", protocol.SendChatMessage{Text: "hi"})
	assert.ErrorIs(t, err, ErrRateLimited)

	resp := protocol.NewResponse("1", protocol.TypeSendChat, nil, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "rate_limited", resp.Error.Code)
}

func TestDispatchOutsideRoom(t *testing.T) {
	ctl := newTestController(t)
	ctl.Orch.Registry.Bind("a", apptest.NewConn(), nil)

	_, err := ctl.dispatch("a", protocol.StartTyping{})
	assert.ErrorIs(t, err, core.ErrNotInRoom)
	_, err = ctl.dispatch("a", protocol.LeaveRoom{})
	assert.ErrorIs(t, err, core.ErrNotInRoom)
}
