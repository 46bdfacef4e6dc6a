package http

import (
	nethttp "net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/session"
)

// sessionHandlers keep the resumption record in the signed session cookie for
// browser clients: one JSON value under session.Key.
type sessionHandlers struct {
	now func() time.Time
}

type saveSessionRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

func (h *sessionHandlers) get(c *gin.Context) {
	s := sessions.Default(c)
	raw, _ := s.Get(session.Key).(string)
	if raw == "" {
		abortError(c, nethttp.StatusNotFound, "no_session", "no saved session")
		return
	}
	rec, err := session.Decode(raw)
	if err != nil {
		h.drop(s, "invalid")
		abortError(c, nethttp.StatusNotFound, "no_session", "no saved session")
		return
	}
	if rec.Stale(h.now(), session.StaleAfter) {
		h.drop(s, "expired")
		abortError(c, nethttp.StatusNotFound, "session_expired", "saved session expired")
		return
	}
	c.JSON(nethttp.StatusOK, rec)
}

func (h *sessionHandlers) put(c *gin.Context) {
	var req saveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, nethttp.StatusBadRequest, "bad_payload", err.Error())
		return
	}
	nick, err := core.NormalizeNickname(req.Nickname)
	if err != nil {
		abortError(c, nethttp.StatusBadRequest, core.ErrInvalidNickname.Code, err.Error())
		return
	}
	rec := session.NewRecord(string(core.NormalizeRoomID(req.RoomID)), nick, h.now())
	if len(rec.RoomID) == 0 || len(rec.RoomID) > 16 {
		abortError(c, nethttp.StatusBadRequest, "bad_payload", "invalid room id")
		return
	}
	raw, err := session.Encode(rec)
	if err != nil {
		abortError(c, nethttp.StatusInternalServerError, "internal", "internal error")
		return
	}
	s := sessions.Default(c)
	s.Set(session.Key, raw)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		abortError(c, nethttp.StatusInternalServerError, "internal", "internal error")
		return
	}
	c.JSON(nethttp.StatusOK, rec)
}

func (h *sessionHandlers) clear(c *gin.Context) {
	h.drop(sessions.Default(c), "leave")
	c.Status(nethttp.StatusNoContent)
}

func (h *sessionHandlers) drop(s sessions.Session, reason string) {
	s.Delete(session.Key)
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Str("reason", reason).Msg("clear session")
	}
}
