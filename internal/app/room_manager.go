package app

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager is the process-wide room table. Only the orchestrator
// creates and removes entries.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
	codes *core.CodePool
}

func NewRoomManager(codes *core.CodePool) *RoomManager {
	if codes == nil {
		codes = core.NewCodePool()
	}
	return &RoomManager{rooms: make(map[domain.RoomID]core.RoomService), codes: codes}
}

// Create allocates a free code and runs init on the new room before it
// becomes visible, so no caller ever sees a room without its host.
func (m *RoomManager) Create(name string, now time.Time, init func(r *domain.Room)) (core.RoomService, error) {
	id, err := m.codes.Acquire()
	if err != nil {
		return nil, err
	}
	room := domain.NewRoom(id, name, now)
	init(room)
	svc := core.NewRoomService(room)

	m.mu.Lock()
	m.rooms[id] = svc
	m.mu.Unlock()
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	return svc, nil
}

func (m *RoomManager) Get(id domain.RoomID) (core.RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Remove drops the room and releases its code for reuse.
func (m *RoomManager) Remove(id domain.RoomID) {
	m.mu.Lock()
	_, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()
	if ok {
		m.codes.Release(id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room removed")
	}
}

func (m *RoomManager) List() []core.RoomInfo {
	m.mu.RLock()
	rooms := make([]core.RoomService, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *RoomManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
