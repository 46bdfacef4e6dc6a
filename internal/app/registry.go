package app

import (
	"context"
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// Identity is what a live connection currently stands for.
type Identity struct {
	RoomID   domain.RoomID
	PlayerID domain.PlayerID
}

type connEntry struct {
	Identity
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Registry maps live connections to room identities and keeps, per room,
// the set of attached connections. It lives for the whole process; entries
// come and go only through Bind/Unbind and Attach/Detach.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
	rooms map[domain.RoomID]map[domain.ConnID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
		rooms: make(map[domain.RoomID]map[domain.ConnID]struct{}),
	}
}

// Bind registers a freshly accepted connection that is not in any room yet.
func (r *Registry) Bind(conn domain.ConnID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = &connEntry{Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("bound connection")
}

func (r *Registry) Unbind(conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[conn]; ok {
		r.leaveLocked(conn, e.RoomID)
		delete(r.conns, conn)
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("unbind connection")
}

// Attach maps conn to a player and subscribes it to the room, replacing
// any previous room mapping.
func (r *Registry) Attach(conn domain.ConnID, room domain.RoomID, player domain.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[conn]
	if !ok {
		e = &connEntry{}
		r.conns[conn] = e
	}
	if e.RoomID != "" {
		r.leaveLocked(conn, e.RoomID)
	}
	e.Identity = Identity{RoomID: room, PlayerID: player}
	subs, ok := r.rooms[room]
	if !ok {
		subs = make(map[domain.ConnID]struct{})
		r.rooms[room] = subs
	}
	subs[conn] = struct{}{}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("room", string(room)).Str("player", string(player)).Msg("attached")
}

// Detach severs the identity mapping; the connection itself stays bound.
func (r *Registry) Detach(conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[conn]
	if !ok || e.RoomID == "" {
		return
	}
	r.leaveLocked(conn, e.RoomID)
	e.Identity = Identity{}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("detached")
}

func (r *Registry) leaveLocked(conn domain.ConnID, room domain.RoomID) {
	if subs, ok := r.rooms[room]; ok {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(r.rooms, room)
		}
	}
}

func (r *Registry) Lookup(conn domain.ConnID) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[conn]
	if !ok || e.RoomID == "" {
		return Identity{}, false
	}
	return e.Identity, true
}

func (r *Registry) Signal(conn domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[conn]
	if !ok || e.Signal == nil {
		return nil, false
	}
	return e.Signal, true
}

type Subscriber struct {
	Conn   domain.ConnID
	Signal core.SignalConnection
}

// Members returns the live connections attached to room.
func (r *Registry) Members(room domain.RoomID) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := r.rooms[room]
	out := make([]Subscriber, 0, len(subs))
	for conn := range subs {
		if e := r.conns[conn]; e != nil && e.Signal != nil {
			out = append(out, Subscriber{Conn: conn, Signal: e.Signal})
		}
	}
	return out
}

func (r *Registry) Cancel(conn domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[conn]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("canceled connection")
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
