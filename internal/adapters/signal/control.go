package signal

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/protocol"
)

// handlePing answers an application-level keepalive. Browsers cannot send
// websocket ping frames, so clients use the ping intent instead.
func (ctl *SignalWSController) handlePing(c *WsSignalConn, requestID string) {
	b, err := protocol.EncodePong(requestID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode pong")
		return
	}
	_ = c.TrySend(b)
}
