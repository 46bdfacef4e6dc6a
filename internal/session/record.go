// Package session is the client half of room resumption: a single persisted
// record of the last room a client was in, and the rules for using it to
// rejoin after a reconnect.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Key is the single storage key the record lives under.
	Key = "planning-poker-session"
	// StaleAfter bounds how old a record may be before it is discarded
	// without contacting the server.
	StaleAfter = time.Hour
)

var (
	ErrNoSession      = errors.New("no saved session")
	ErrInvalidSession = errors.New("invalid saved session")
)

type Record struct {
	RoomID    string `json:"roomId"`
	Nickname  string `json:"nickname"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

func NewRecord(roomID, nickname string, now time.Time) Record {
	return Record{
		RoomID:    strings.ToUpper(strings.TrimSpace(roomID)),
		Nickname:  strings.TrimSpace(nickname),
		Timestamp: now.UnixMilli(),
	}
}

func (r Record) Time() time.Time { return time.UnixMilli(r.Timestamp) }

func (r Record) Valid() bool {
	return r.RoomID != "" && r.Nickname != "" && r.Timestamp > 0
}

// Stale reports whether the record is older than ttl at now.
func (r Record) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.Time()) > ttl
}

func Encode(r Record) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Decode(raw string) (Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !r.Valid() {
		return Record{}, ErrInvalidSession
	}
	return r, nil
}
