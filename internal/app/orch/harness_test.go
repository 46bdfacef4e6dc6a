package orch

import (
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/apptest"
	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/protocol"
)

type recordingSink struct {
	mu      sync.Mutex
	stories []archive.StoryRecord
	chat    []domain.ChatMessage
	rooms   []archive.RoomRecord
}

func (s *recordingSink) StoryFinished(r archive.StoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append(s.stories, r)
}

func (s *recordingSink) ChatPosted(m domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, m)
}

func (s *recordingSink) RoomClosed(r archive.RoomRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, r)
}

type harness struct {
	t     *testing.T
	o     *Orchestrator
	reg   *app.Registry
	rooms *app.RoomManager
	sink  *recordingSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := app.NewRegistry()
	rooms := app.NewRoomManager(nil)
	sink := &recordingSink{}
	o := New(reg, rooms, app.NewHub(reg, nil), sink)
	o.Now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return &harness{t: t, o: o, reg: reg, rooms: rooms, sink: sink}
}

func (h *harness) connect(id domain.ConnID) *apptest.Conn {
	c := apptest.NewConn()
	h.reg.Bind(id, c, nil)
	return c
}

func (h *harness) create(conn domain.ConnID, nick string) JoinResult {
	h.t.Helper()
	res, err := h.o.CreateRoom(conn, nick, "")
	require.NoError(h.t, err)
	return res
}

func (h *harness) join(conn domain.ConnID, room domain.RoomID, nick string) JoinResult {
	h.t.Helper()
	res, err := h.o.JoinRoom(conn, string(room), nick, false)
	require.NoError(h.t, err)
	return res
}

func payload[T any](t *testing.T, f protocol.Frame) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(f.Payload, &v))
	return v
}
