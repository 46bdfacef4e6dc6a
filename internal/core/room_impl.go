package core

import (
	"sync"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomService serializes every mutation of one room.
// It owns the aggregate but never touches transport resources.
type RoomService interface {
	ID() domain.RoomID
	Info() RoomInfo
	// Do runs fn with exclusive access to the room. Once the last player is
	// gone the room is destroyed and every later Do returns ErrRoomNotFound.
	Do(fn func(r *domain.Room) error) error
}

// roomImpl is a threadsafe in-memory room.
type roomImpl struct {
	mu        sync.Mutex
	room      *domain.Room
	destroyed bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{room: room}
}

func (r *roomImpl) ID() domain.RoomID { return r.room.ID }

func (r *roomImpl) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:          r.room.ID,
		Name:        r.room.Name,
		PlayerCount: len(r.room.Players),
		StoryCount:  len(r.room.Stories),
	}
}

func (r *roomImpl) Do(fn func(r *domain.Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrRoomNotFound
	}
	err := fn(r.room)
	if len(r.room.Players) == 0 {
		r.destroyed = true
		log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Msg("room destroyed")
	}
	return err
}
