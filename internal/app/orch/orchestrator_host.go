package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// TransferHost hands the host role to the player with the given nickname.
func (o *Orchestrator) TransferHost(conn domain.ConnID, targetNickname string) error {
	return o.withHost(conn, func(r *domain.Room, me *domain.Player) error {
		target := core.PlayerByNickname(r, targetNickname)
		return o.delegateLocked(r, me, target)
	})
}

// DelegateHost hands the host role to the player with the given id.
func (o *Orchestrator) DelegateHost(conn domain.ConnID, targetID domain.PlayerID) error {
	return o.withHost(conn, func(r *domain.Room, me *domain.Player) error {
		target, _ := r.Player(targetID)
		return o.delegateLocked(r, me, target)
	})
}

func (o *Orchestrator) delegateLocked(r *domain.Room, me, target *domain.Player) error {
	if target == nil {
		return core.ErrTargetNotFound
	}
	if target.ID == me.ID {
		return core.ErrSelfTarget
	}
	core.SwapHost(me, target)
	o.publish(core.Event{
		Name: core.EvHostChanged,
		Room: r.ID,
		Payload: core.HostChangedPayload{
			PreviousHostID: me.ID,
			NewHostID:      target.ID,
			NewHostName:    target.Nickname,
			Reason:         core.HostDelegated,
		},
	})
	log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("from", string(me.ID)).Str("to", string(target.ID)).Msg("host delegated")
	return nil
}
