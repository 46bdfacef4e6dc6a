package app

import (
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Hub is the broadcast side of the transport: it encodes each event once and
// fans it out over the room's subscriber set. Sends never block.
type Hub struct {
	Registry *Registry
	Policy   Policy
}

func NewHub(reg *Registry, policy Policy) *Hub {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Hub{Registry: reg, Policy: policy}
}

func (h *Hub) Publish(ev core.Event) {
	frame, err := protocol.EncodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", string(ev.Name)).Msg("encode event")
		return
	}
	sent := 0
	for _, sub := range h.Registry.Members(ev.Room) {
		if sub.Conn == ev.Except {
			continue
		}
		if h.send(sub.Conn, sub.Signal, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "app.hub").Str("room", string(ev.Room)).Str("event", string(ev.Name)).Int("sent_to", sent).Msg("broadcast result")
}

func (h *Hub) SendTo(conn domain.ConnID, ev core.Event) {
	sig, ok := h.Registry.Signal(conn)
	if !ok {
		return
	}
	frame, err := protocol.EncodeEvent(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", string(ev.Name)).Msg("encode event")
		return
	}
	h.send(conn, sig, frame)
}

func (h *Hub) send(conn domain.ConnID, sig core.SignalConnection, frame core.Frame) bool {
	err := sig.TrySend(frame)
	if err == nil {
		return true
	}
	switch h.Policy.OnBackPressure(conn, err) {
	case Disconnect:
		log.Warn().Str("module", "app.hub").Str("conn", string(conn)).Msg("slow connection dropped")
		h.Registry.Cancel(conn)
	case DropEvent, NoAction:
	}
	return false
}
