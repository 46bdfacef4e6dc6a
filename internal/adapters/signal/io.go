package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/protocol"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		// unblocks the read pump as well
		c.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, conn domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(conn)).Msg("readPump closing")
		ctl.Orch.Disconnect(conn)
		ctl.chat.Forget(conn)
		cancel()
		c.Close()
	}()

	pongWait := ctl.opts.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(conn)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("conn", string(conn)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(conn, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(conn domain.ConnID, c *WsSignalConn, data []byte) {
	req, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(conn)).Msg("bad message")
		ctl.respond(c, protocol.NewResponse(req.ID, "", nil, err))
		return
	}
	if _, ok := req.Intent.(protocol.Ping); ok {
		ctl.handlePing(c, req.ID)
		return
	}
	out, err := ctl.dispatch(conn, req.Intent)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(conn)).Str("intent", req.Intent.Type()).Msg("intent rejected")
	}
	ctl.respond(c, protocol.NewResponse(req.ID, req.Intent.Type(), out, err))
}

func (ctl *SignalWSController) respond(c *WsSignalConn, r protocol.Response) {
	b, err := protocol.EncodeResponse(r)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode response")
		return
	}
	_ = c.TrySend(b)
}
