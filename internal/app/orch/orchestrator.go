// Package orch is the room coordinator: the only code that mutates rooms,
// the room table and the identity registry.
package orch

import (
	"errors"
	"time"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// Orchestrator applies intents to rooms. Each room is mutated under its own
// lock; events are published before the lock is released so every
// subscriber sees one room's events in mutation order.
//
// Lock order: room, then room table, then registry.
type Orchestrator struct {
	Registry  *app.Registry
	Rooms     *app.RoomManager
	Publisher core.Publisher
	Archive   archive.Sink
	Now       func() time.Time
}

func New(reg *app.Registry, rooms *app.RoomManager, pub core.Publisher, sink archive.Sink) *Orchestrator {
	if sink == nil {
		sink = archive.Nop{}
	}
	return &Orchestrator{
		Registry:  reg,
		Rooms:     rooms,
		Publisher: pub,
		Archive:   sink,
		Now:       time.Now,
	}
}

// JoinResult is returned to the connection that created or joined a room.
type JoinResult struct {
	Room   core.RoomView   `json:"room"`
	Player core.PlayerView `json:"player"`
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Orchestrator) publish(ev core.Event) {
	if o.Publisher != nil {
		o.Publisher.Publish(ev)
	}
}

func (o *Orchestrator) sendTo(conn domain.ConnID, ev core.Event) {
	if o.Publisher != nil {
		o.Publisher.SendTo(conn, ev)
	}
}

// withPlayer resolves conn to its player and runs fn under the room lock.
// A mapping that no longer matches the room (kicked, replaced, destroyed)
// counts as not being in a room.
func (o *Orchestrator) withPlayer(conn domain.ConnID, fn func(r *domain.Room, me *domain.Player) error) error {
	id, ok := o.Registry.Lookup(conn)
	if !ok {
		return core.ErrNotInRoom
	}
	room, ok := o.Rooms.Get(id.RoomID)
	if !ok {
		return core.ErrNotInRoom
	}
	err := room.Do(func(r *domain.Room) error {
		me, _ := r.Player(id.PlayerID)
		if me == nil || me.ConnID != conn {
			return core.ErrNotInRoom
		}
		return fn(r, me)
	})
	if errors.Is(err, core.ErrRoomNotFound) {
		return core.ErrNotInRoom
	}
	return err
}

func (o *Orchestrator) withHost(conn domain.ConnID, fn func(r *domain.Room, me *domain.Player) error) error {
	return o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		if !me.IsHost {
			return core.ErrNotHost
		}
		return fn(r, me)
	})
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	return o.Rooms.List()
}

func (o *Orchestrator) RoomInfo(raw string) (core.RoomInfo, bool) {
	room, ok := o.Rooms.Get(core.NormalizeRoomID(raw))
	if !ok {
		return core.RoomInfo{}, false
	}
	info := room.Info()
	return info, info.PlayerCount > 0
}
