package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/app/apptest"
	"github.com/dkeye/Poker/internal/core"
)

func TestHubPublishSkipsExceptAndOtherRooms(t *testing.T) {
	reg := NewRegistry()
	a, b, other := apptest.NewConn(), apptest.NewConn(), apptest.NewConn()
	reg.Bind("a", a, nil)
	reg.Bind("b", b, nil)
	reg.Bind("o", other, nil)
	reg.Attach("a", "ROOM22", "pa")
	reg.Attach("b", "ROOM22", "pb")
	reg.Attach("o", "ELSE22", "po")

	hub := NewHub(reg, nil)
	hub.Publish(core.Event{Name: core.EvPlayerJoined, Room: "ROOM22", Except: "a"})

	assert.Empty(t, a.Types())
	assert.Equal(t, []string{string(core.EvPlayerJoined)}, b.Types())
	assert.Empty(t, other.Types())

	f, ok := b.Last(string(core.EvPlayerJoined))
	require.True(t, ok)
	assert.Equal(t, "ROOM22", f.RoomID)
}

func TestHubSendToUnattachedConnection(t *testing.T) {
	reg := NewRegistry()
	c := apptest.NewConn()
	reg.Bind("c", c, nil)

	NewHub(reg, nil).SendTo("c", core.Event{Name: core.EvPlayerKicked})
	assert.Equal(t, []string{string(core.EvPlayerKicked)}, c.Types())
}

func TestHubDisconnectsSlowConnection(t *testing.T) {
	reg := NewRegistry()
	slow := apptest.NewConn()
	slow.SetFull(true)
	ctx, cancel := context.WithCancel(context.Background())
	reg.Bind("slow", slow, cancel)
	reg.Attach("slow", "ROOM22", "p")

	NewHub(reg, SimplePolicy{}).Publish(core.Event{Name: core.EvStoryUpdated, Room: "ROOM22"})
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSimplePolicy(t *testing.T) {
	p := SimplePolicy{}
	assert.Equal(t, Disconnect, p.OnBackPressure("c", core.ErrBackpressure))
	assert.Equal(t, DropEvent, p.OnBackPressure("c", core.ErrConnClosed))
}
