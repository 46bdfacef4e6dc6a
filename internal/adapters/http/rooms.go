package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/core"
)

type roomHandlers struct {
	orch *orch.Orchestrator
}

func (h *roomHandlers) list(c *gin.Context) {
	rooms := h.orch.ListRooms()
	if rooms == nil {
		rooms = []core.RoomInfo{}
	}
	c.JSON(nethttp.StatusOK, gin.H{"rooms": rooms})
}

// get lets a client check a room code before joining.
func (h *roomHandlers) get(c *gin.Context) {
	info, ok := h.orch.RoomInfo(c.Param("id"))
	if !ok {
		abortError(c, nethttp.StatusNotFound, core.ErrRoomNotFound.Code, core.ErrRoomNotFound.Message)
		return
	}
	c.JSON(nethttp.StatusOK, info)
}
