package http

import (
	"context"
	nethttp "net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/adapters/signal"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
)

const clientTokenCookie = "ct"

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientTokenCookie)
		if token == "" {
			token = uuid.NewString()
			c.SetCookie(clientTokenCookie, token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// Deps are the collaborators the router serves. Archive may be nil, in which
// case the archive endpoints are not mounted.
type Deps struct {
	Orch    *orch.Orchestrator
	Archive ArchiveReader
	Now     func() time.Time
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: nethttp.SameSiteLaxMode})
	r.Use(sessions.Sessions("PokerSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok", "rooms": len(deps.Orch.ListRooms())})
	})

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(cfg.StaticPath, "index.html"))
		})
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	ctrl := signal.NewSignalWSController(deps.Orch, signal.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		SendBuffer:   cfg.SendBuffer,
		ChatLimit:    cfg.ChatRateLimit,
		ChatInterval: cfg.ChatRateInterval,
	})
	api.GET("/ws", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client_token", c.GetString("client_token")).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	rooms := &roomHandlers{orch: deps.Orch}
	api.GET("/rooms", rooms.list)
	api.GET("/rooms/:id", rooms.get)

	sess := &sessionHandlers{now: deps.Now}
	api.GET("/session", sess.get)
	api.PUT("/session", sess.put)
	api.DELETE("/session", sess.clear)

	if deps.Archive != nil {
		arch := &archiveHandlers{reader: deps.Archive}
		api.GET("/archive/rooms", arch.rooms)
		api.GET("/archive/rooms/:id/stories", arch.stories)
	}

	return r
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
