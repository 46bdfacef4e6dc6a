package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dkeye/Poker/internal/client"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/session"
)

func main() {
	server := pflag.String("server", "ws://localhost:8080/api/ws", "websocket endpoint")
	nickname := pflag.String("nickname", "", "nickname to use for a manual join or create")
	room := pflag.String("room", "", "room code to join; empty creates a room")
	spectator := pflag.Bool("spectator", false, "join as a spectator")
	sessionFile := pflag.String("session-file", defaultSessionFile(), "where the resumption record is kept")
	leave := pflag.Bool("leave", false, "leave the room and forget the session on exit")
	pflag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := client.Dial(ctx, *server, nil)
	if err != nil {
		log.Fatal().Err(err).Str("server", *server).Msg("dial")
	}
	defer c.Close()

	resumer := session.NewResumer(session.NewFileStore(*sessionFile), c)
	outcome, rec, err := resumer.Resume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("resume")
	}
	log.Info().Str("outcome", outcome.String()).Str("room", rec.RoomID).Msg("session")

	if outcome != session.Resumed {
		m, err := enter(ctx, c, *room, *nickname, *spectator)
		var conflict *core.NicknameConflictError
		if errors.As(err, &conflict) {
			log.Fatal().Strs("suggestions", conflict.Suggestions).Msg("nickname taken")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("join")
		}
		if err := resumer.Remember(string(m.Room.ID), m.Player.Nickname); err != nil {
			log.Warn().Err(err).Msg("save session")
		}
		log.Info().Str("room", string(m.Room.ID)).Str("player", string(m.Player.ID)).Bool("host", m.Player.IsHost).Msg("in room")
	}

	tail(ctx, c)

	if *leave {
		lctx, lcancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer lcancel()
		if err := c.Leave(lctx); err != nil {
			log.Warn().Err(err).Msg("leave")
		}
		if err := resumer.Forget(); err != nil {
			log.Warn().Err(err).Msg("forget session")
		}
	}
}

func enter(ctx context.Context, c *client.Client, room, nickname string, spectator bool) (client.Membership, error) {
	if nickname == "" {
		return client.Membership{}, errors.New("--nickname is required without a resumable session")
	}
	if room == "" {
		return c.CreateRoom(ctx, nickname, "")
	}
	return c.Join(ctx, room, nickname, spectator)
}

func tail(ctx context.Context, c *client.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-c.Events():
			if !ok {
				log.Warn().Err(c.Err()).Msg("connection closed")
				return
			}
			var payload any
			if len(f.Payload) > 0 {
				_ = json.Unmarshal(f.Payload, &payload)
			}
			log.Info().Str("event", f.Type).Str("room", f.RoomID).Interface("payload", payload).Msg("")
		}
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "poker", "session.json")
}
