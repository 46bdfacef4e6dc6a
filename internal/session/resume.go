package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
)

// Joiner performs an ordinary room join.
type Joiner interface {
	JoinRoom(ctx context.Context, roomID, nickname string) error
}

type Outcome int

const (
	// NoSession: nothing saved, the user joins manually.
	NoSession Outcome = iota
	// Expired: the record was older than the staleness window and was dropped.
	Expired
	// Resumed: the room was rejoined under the saved nickname.
	Resumed
	// Fallback: the server rejected the rejoin; the record was cleared and
	// the user joins manually.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case NoSession:
		return "no_session"
	case Expired:
		return "expired"
	case Resumed:
		return "resumed"
	case Fallback:
		return "fallback"
	}
	return "unknown"
}

type Resumer struct {
	Store  Store
	Joiner Joiner
	TTL    time.Duration
	Now    func() time.Time
}

func NewResumer(store Store, joiner Joiner) *Resumer {
	return &Resumer{Store: store, Joiner: joiner, TTL: StaleAfter, Now: time.Now}
}

// Resume rejoins the saved room with the saved nickname. A nickname conflict
// means the previous connection has not been cleaned up yet, or someone else
// took the name; either way the record is cleared and the caller falls back
// to a manual join. Transport failures leave the record in place.
// The record does not carry the spectator flag, so a player who joined as a
// spectator by flag alone comes back as a voter; a spectator nickname is
// re-detected by the server.
func (r *Resumer) Resume(ctx context.Context) (Outcome, Record, error) {
	rec, err := r.Store.Load()
	if errors.Is(err, ErrNoSession) {
		return NoSession, Record{}, nil
	}
	if err != nil {
		return NoSession, Record{}, err
	}
	now := r.now()
	if rec.Stale(now, r.ttl()) {
		log.Info().Str("module", "session").Str("room", rec.RoomID).Msg("saved session expired")
		return Expired, rec, r.Store.Clear()
	}

	err = r.Joiner.JoinRoom(ctx, rec.RoomID, rec.Nickname)
	switch {
	case err == nil:
		rec.Timestamp = now.UnixMilli()
		return Resumed, rec, r.Store.Save(rec)
	case errors.Is(err, core.ErrNicknameConflict), errors.Is(err, core.ErrRoomNotFound):
		log.Info().Err(err).Str("module", "session").Str("room", rec.RoomID).Msg("resume rejected, falling back to manual join")
		return Fallback, rec, r.Store.Clear()
	default:
		return NoSession, rec, err
	}
}

// Remember saves the membership after a successful create or join.
func (r *Resumer) Remember(roomID, nickname string) error {
	return r.Store.Save(NewRecord(roomID, nickname, r.now()))
}

// Forget clears the record after an explicit leave.
func (r *Resumer) Forget() error {
	return r.Store.Clear()
}

func (r *Resumer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Resumer) ttl() time.Duration {
	if r.TTL <= 0 {
		return StaleAfter
	}
	return r.TTL
}
