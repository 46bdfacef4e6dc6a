package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Poker/internal/adapters/http"
	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/archive"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Logger first so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	reg := app.NewRegistry()
	rooms := app.NewRoomManager(core.NewCodePool())
	hub := app.NewHub(reg, app.SimplePolicy{})

	var (
		sink   archive.Sink = archive.Nop{}
		reader router.ArchiveReader
		store  *archive.SQLite
	)
	if cfg.ArchivePath != "" {
		store, err = archive.Open(cfg.ArchivePath, cfg.ArchiveBuffer)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ArchivePath).Msg("failed to open archive")
		}
		sink, reader = store, store
	}

	o := orch.New(reg, rooms, hub, sink)

	g, gctx := errgroup.WithContext(ctx)

	r := router.SetupRouter(gctx, cfg, router.Deps{Orch: o, Archive: reader})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if store != nil {
		g.Go(func() error { return store.Run(gctx) })
	}
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Poker server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		if store != nil {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("archive close")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}
