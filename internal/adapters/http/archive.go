package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// ArchiveReader is the read side of the archive used for export.
type ArchiveReader interface {
	Rooms(ctx context.Context, limit int) ([]archive.RoomSummary, error)
	Stories(ctx context.Context, room domain.RoomID) ([]archive.FinishedStory, error)
}

type archiveHandlers struct {
	reader ArchiveReader
}

func (h *archiveHandlers) rooms(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			abortError(c, nethttp.StatusBadRequest, "bad_payload", "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	rooms, err := h.reader.Rooms(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("archive rooms")
		abortError(c, nethttp.StatusInternalServerError, "internal", "internal error")
		return
	}
	if rooms == nil {
		rooms = []archive.RoomSummary{}
	}
	c.JSON(nethttp.StatusOK, gin.H{"rooms": rooms})
}

func (h *archiveHandlers) stories(c *gin.Context) {
	id := core.NormalizeRoomID(c.Param("id"))
	stories, err := h.reader.Stories(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(id)).Msg("archive stories")
		abortError(c, nethttp.StatusInternalServerError, "internal", "internal error")
		return
	}
	if stories == nil {
		stories = []archive.FinishedStory{}
	}
	c.JSON(nethttp.StatusOK, gin.H{"roomId": id, "stories": stories})
}
