package orch

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// CreateRoom opens a room with conn's player as its only member and host.
func (o *Orchestrator) CreateRoom(conn domain.ConnID, nickname, roomName string) (JoinResult, error) {
	nick, err := core.NormalizeNickname(nickname)
	if err != nil {
		return JoinResult{}, err
	}
	roomName, err = normalizeRoomName(roomName, nick)
	if err != nil {
		return JoinResult{}, err
	}
	prev, hadPrev := o.Registry.Lookup(conn)

	var res JoinResult
	_, err = o.Rooms.Create(roomName, o.now(), func(r *domain.Room) {
		p := domain.NewPlayer(nick, conn, core.IsSpectatorNickname(nick))
		core.AddPlayer(r, p)
		o.Registry.Attach(conn, r.ID, p.ID)
		res = JoinResult{Room: core.NewRoomView(r), Player: core.NewPlayerView(p)}
	})
	if err != nil {
		return JoinResult{}, err
	}
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(res.Room.ID)).Str("nickname", nick).Msg("room created")
	o.sendTo(conn, core.Event{Name: core.EvRoomCreated, Room: res.Room.ID, Payload: res})

	if hadPrev {
		o.removeStale(conn, prev, core.HostLeft)
	}
	return res, nil
}

// JoinRoom adds conn as a new non-host player. A reconnecting client uses
// the same path with its previous nickname; if the old entry is still
// present the join fails with a nickname conflict and the client retries.
func (o *Orchestrator) JoinRoom(conn domain.ConnID, rawRoomID, nickname string, spectator bool) (JoinResult, error) {
	nick, err := core.NormalizeNickname(nickname)
	if err != nil {
		return JoinResult{}, err
	}
	roomID := core.NormalizeRoomID(rawRoomID)
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return JoinResult{}, core.ErrRoomNotFound
	}
	prev, hadPrev := o.Registry.Lookup(conn)

	var res JoinResult
	err = room.Do(func(r *domain.Room) error {
		if hadPrev && prev.RoomID == r.ID {
			// repeated join on a live membership: answer with current state
			if me, _ := r.Player(prev.PlayerID); me != nil && me.ConnID == conn {
				res = JoinResult{Room: core.NewRoomView(r), Player: core.NewPlayerView(me)}
				return nil
			}
		}
		if v := core.ResolveNickname(nick, r.Nicknames()); !v.OK {
			return &core.NicknameConflictError{Nickname: nick, Suggestions: v.Suggestions}
		}
		p := domain.NewPlayer(nick, conn, spectator || core.IsSpectatorNickname(nick))
		core.AddPlayer(r, p)
		o.Registry.Attach(conn, r.ID, p.ID)

		view := core.NewRoomView(r)
		res = JoinResult{Room: view, Player: core.NewPlayerView(p)}
		o.publish(core.Event{
			Name:    core.EvPlayerJoined,
			Room:    r.ID,
			Except:  conn,
			Payload: core.PlayerJoinedPayload{Player: res.Player, Room: view},
		})
		o.sendTo(conn, core.Event{Name: core.EvRoomJoined, Room: r.ID, Payload: res})
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(roomID)).Str("nickname", nick).Msg("joined")

	if hadPrev && prev.RoomID != roomID {
		o.removeStale(conn, prev, core.HostLeft)
	}
	return res, nil
}

// LeaveRoom is an explicit leave; the connection stays open.
func (o *Orchestrator) LeaveRoom(conn domain.ConnID) error {
	return o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		o.removeLocked(r, me, core.HostLeft, false)
		return nil
	})
}

// Disconnect handles connection loss: typing state is cleared, the player
// is removed, host and room updates are emitted, and the connection is
// forgotten.
func (o *Orchestrator) Disconnect(conn domain.ConnID) {
	err := o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		o.removeLocked(r, me, core.HostDisconnected, false)
		return nil
	})
	if err != nil {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("disconnect outside a room")
	}
	o.Registry.Unbind(conn)
}

// KickPlayer removes the target like a disconnect and severs its mapping so
// the stale connection cannot act in the room any more.
func (o *Orchestrator) KickPlayer(conn domain.ConnID, target domain.PlayerID) error {
	return o.withHost(conn, func(r *domain.Room, me *domain.Player) error {
		if target == me.ID {
			return core.ErrSelfTarget
		}
		p, _ := r.Player(target)
		if p == nil {
			return core.ErrTargetNotFound
		}
		o.sendTo(p.ConnID, core.Event{
			Name:    core.EvPlayerKicked,
			Room:    r.ID,
			Payload: core.KickedPayload{RoomID: r.ID, By: me.Nickname},
		})
		o.removeLocked(r, p, core.HostLeft, true)
		log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("target", string(target)).Msg("player kicked")
		return nil
	})
}

// SyncRoom returns a full snapshot and also pushes it as room:state.
func (o *Orchestrator) SyncRoom(conn domain.ConnID) (core.RoomView, error) {
	var view core.RoomView
	err := o.withPlayer(conn, func(r *domain.Room, _ *domain.Player) error {
		view = core.NewRoomView(r)
		o.sendTo(conn, core.Event{Name: core.EvRoomState, Room: r.ID, Payload: view})
		return nil
	})
	return view, err
}

// removeStale drops the membership conn had before it moved elsewhere.
func (o *Orchestrator) removeStale(conn domain.ConnID, prev app.Identity, reason core.HostChangeReason) {
	room, ok := o.Rooms.Get(prev.RoomID)
	if !ok {
		return
	}
	_ = room.Do(func(r *domain.Room) error {
		if p, _ := r.Player(prev.PlayerID); p != nil && p.ConnID == conn {
			o.removeLocked(r, p, reason, false)
		}
		return nil
	})
}

// removeLocked runs with r locked. Emission order: typing stop, host change,
// then the room update.
func (o *Orchestrator) removeLocked(r *domain.Room, p *domain.Player, reason core.HostChangeReason, kicked bool) {
	res, ok := core.RemovePlayer(r, p.ID)
	if !ok {
		return
	}
	if id, mapped := o.Registry.Lookup(p.ConnID); mapped && id.RoomID == r.ID && id.PlayerID == p.ID {
		o.Registry.Detach(p.ConnID)
	}
	logger := log.With().Str("module", "orch").Str("room", string(r.ID)).Str("player", string(p.ID)).Logger()

	if res.RoomEmpty {
		o.Rooms.Remove(r.ID)
		o.Archive.RoomClosed(archive.RoomRecord{
			Room:     core.NewRoomView(r),
			Chat:     append([]domain.ChatMessage(nil), r.ChatMessages...),
			ClosedAt: o.now(),
		})
		logger.Info().Msg("last player left")
		return
	}

	if res.WasTyping {
		o.publish(core.Event{Name: core.EvTypingStop, Room: r.ID, Payload: core.TypingPayload{PlayerID: p.ID}})
	}
	if res.NewHost != nil {
		o.publish(core.Event{
			Name: core.EvHostChanged,
			Room: r.ID,
			Payload: core.HostChangedPayload{
				PreviousHostID: p.ID,
				NewHostID:      res.NewHost.ID,
				NewHostName:    res.NewHost.Nickname,
				Reason:         reason,
			},
		})
		logger.Info().Str("new_host", string(res.NewHost.ID)).Str("reason", string(reason)).Msg("host promoted")
	}
	for _, sid := range res.VotesFrom {
		if s := r.Story(sid); s != nil {
			o.publish(core.Event{Name: core.EvStoryUpdated, Room: r.ID, Payload: core.StoryPayload{Story: core.NewStoryView(s, r.Players)}})
		}
	}
	o.publish(core.Event{
		Name:    core.EvPlayerLeft,
		Room:    r.ID,
		Payload: core.PlayerLeftPayload{Player: core.NewPlayerView(res.Removed), Kicked: kicked, Room: core.NewRoomView(r)},
	})
	logger.Info().Bool("kicked", kicked).Msg("player removed")
}

// normalizeRoomName trims the name and falls back to "<nick>'s room".
func normalizeRoomName(raw, nick string) (string, error) {
	n := strings.TrimSpace(raw)
	if n == "" {
		return nick + "'s room", nil
	}
	if utf8.RuneCountInString(n) > maxTitleLen {
		return "", core.ErrInvalidRoomName
	}
	return n, nil
}
