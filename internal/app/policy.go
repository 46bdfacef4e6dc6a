package app

import (
	"errors"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	Disconnect
)

// Policy decides what happens to a connection a broadcast could not reach.
type Policy interface {
	OnBackPressure(conn domain.ConnID, err error) BackpressureAction
}

// SimplePolicy skips closed connections and drops slow ones: a client whose
// send buffer is full will reconnect and resync from a fresh snapshot.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ domain.ConnID, err error) BackpressureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return Disconnect
	}
	return DropEvent
}
