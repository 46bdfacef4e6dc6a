package core

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"

	"github.com/dkeye/Poker/internal/domain"
)

const (
	RoomCodeLen = 6
	// no 0/O, 1/I to keep codes readable aloud
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxCodeAttempts  = 64
)

var ErrCodeSpaceExhausted = errors.New("could not allocate a free room code")

// CodePool hands out room codes unique among live rooms.
// Released codes may be handed out again.
type CodePool struct {
	mu   sync.Mutex
	live map[domain.RoomID]struct{}
	gen  func() domain.RoomID
}

func NewCodePool() *CodePool {
	return &CodePool{live: make(map[domain.RoomID]struct{}), gen: randomCode}
}

// NewCodePoolWith uses gen instead of crypto/rand; for tests.
func NewCodePoolWith(gen func() domain.RoomID) *CodePool {
	return &CodePool{live: make(map[domain.RoomID]struct{}), gen: gen}
}

func (p *CodePool) Acquire() (domain.RoomID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range maxCodeAttempts {
		id := p.gen()
		if _, taken := p.live[id]; taken {
			continue
		}
		p.live[id] = struct{}{}
		return id, nil
	}
	return "", ErrCodeSpaceExhausted
}

func (p *CodePool) Release(id domain.RoomID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.live, id)
}

func (p *CodePool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// NormalizeRoomID applies the case rules of generated codes to user input.
func NormalizeRoomID(raw string) domain.RoomID {
	return domain.RoomID(strings.ToUpper(strings.TrimSpace(raw)))
}

func randomCode() domain.RoomID {
	var buf [RoomCodeLen]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return domain.RoomID(buf[:])
}
