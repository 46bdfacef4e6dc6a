package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const writeTimeout = 5 * time.Second

type job struct {
	name string
	run  func(ctx context.Context, db *sql.DB) error
}

// SQLite is a Sink backed by a single-connection SQLite database. A single
// writer goroutine drains a bounded queue; when the queue is full new
// records are dropped.
type SQLite struct {
	db    *sql.DB
	queue chan job

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
	done    chan struct{}
}

// Open prepares the database at path, creating the schema if needed.
func Open(path string, buffer int) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("archive path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure archive directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{`PRAGMA busy_timeout = 5000`, `PRAGMA journal_mode = WAL`} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &SQLite{db: db, queue: make(chan job, buffer), done: make(chan struct{})}, nil
}

func initSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			archive_id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			closed_at INTEGER NOT NULL,
			story_count INTEGER NOT NULL,
			chat_count INTEGER NOT NULL,
			snapshot TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stories (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			final_point TEXT,
			votes TEXT NOT NULL,
			finished_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			nickname TEXT NOT NULL,
			text TEXT NOT NULL,
			sent_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_room_closed ON rooms(room_id, closed_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_stories_room_finished ON stories(room_id, finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_room_sent ON chat_messages(room_id, sent_at);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Run drains the queue until Close is called. It returns once every queued
// record has been attempted.
func (s *SQLite) Run(ctx context.Context) error {
	s.started.Store(true)
	defer close(s.done)
	for j := range s.queue {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
		if err := j.run(wctx, s.db); err != nil {
			log.Error().Err(err).Str("module", "archive").Str("job", j.name).Msg("archive write failed")
		}
		cancel()
	}
	return nil
}

// Close stops accepting records, waits for a running Run to drain, and
// closes the db.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	if s.started.Load() {
		<-s.done
	}
	return s.db.Close()
}

func (s *SQLite) enqueue(j job) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		log.Warn().Str("module", "archive").Str("job", j.name).Msg("archive closed, record dropped")
		return
	}
	select {
	case s.queue <- j:
	default:
		log.Warn().Str("module", "archive").Str("job", j.name).Msg("archive queue full, record dropped")
	}
}

func (s *SQLite) StoryFinished(rec StoryRecord) {
	s.enqueue(job{name: "story", run: func(ctx context.Context, db *sql.DB) error {
		votes, err := json.Marshal(rec.Story.Votes)
		if err != nil {
			return err
		}
		var point sql.NullString
		if rec.Story.FinalPoint != nil {
			point = sql.NullString{String: string(*rec.Story.FinalPoint), Valid: true}
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO stories (id, room_id, title, status, final_point, votes, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET status = excluded.status, final_point = excluded.final_point,
			   votes = excluded.votes, finished_at = excluded.finished_at`,
			string(rec.Story.ID), string(rec.RoomID), rec.Story.Title, string(rec.Story.Status),
			point, string(votes), rec.FinishedAt.UnixMilli())
		return err
	}})
}

func (s *SQLite) ChatPosted(m domain.ChatMessage) {
	s.enqueue(job{name: "chat", run: func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO chat_messages (id, room_id, player_id, nickname, text, sent_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			string(m.ID), string(m.RoomID), string(m.PlayerID), m.Nickname, m.Text, m.Timestamp.UnixMilli())
		return err
	}})
}

func (s *SQLite) RoomClosed(rec RoomRecord) {
	s.enqueue(job{name: "room", run: func(ctx context.Context, db *sql.DB) error {
		snap, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO rooms (room_id, name, created_at, closed_at, story_count, chat_count, snapshot)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(rec.Room.ID), rec.Room.Name, rec.Room.CreatedAt.UnixMilli(), rec.ClosedAt.UnixMilli(),
			len(rec.Room.Stories), len(rec.Chat), string(snap))
		return err
	}})
}

type RoomSummary struct {
	RoomID     domain.RoomID `json:"roomId"`
	Name       string        `json:"name"`
	CreatedAt  time.Time     `json:"createdAt"`
	ClosedAt   time.Time     `json:"closedAt"`
	StoryCount int           `json:"storyCount"`
	ChatCount  int           `json:"chatCount"`
}

// Rooms lists archived rooms, most recently closed first.
func (s *SQLite) Rooms(ctx context.Context, limit int) ([]RoomSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT room_id, name, created_at, closed_at, story_count, chat_count
		 FROM rooms ORDER BY closed_at DESC, archive_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var out []RoomSummary
	for rows.Next() {
		var (
			r               RoomSummary
			id              string
			created, closed int64
		)
		if err := rows.Scan(&id, &r.Name, &created, &closed, &r.StoryCount, &r.ChatCount); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		r.RoomID = domain.RoomID(id)
		r.CreatedAt = time.UnixMilli(created).UTC()
		r.ClosedAt = time.UnixMilli(closed).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

type FinishedStory struct {
	ID         domain.StoryID     `json:"id"`
	Title      string             `json:"title"`
	Status     domain.StoryStatus `json:"status"`
	FinalPoint *domain.VoteValue  `json:"finalPoint,omitempty"`
	Votes      []core.VoteView    `json:"votes"`
	FinishedAt time.Time          `json:"finishedAt"`
}

// Stories returns the finished stories of a room in completion order.
func (s *SQLite) Stories(ctx context.Context, room domain.RoomID) ([]FinishedStory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, status, final_point, votes, finished_at
		 FROM stories WHERE room_id = ? ORDER BY finished_at, id`, string(room))
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var out []FinishedStory
	for rows.Next() {
		var (
			st       FinishedStory
			id       string
			status   string
			point    sql.NullString
			votes    string
			finished int64
		)
		if err := rows.Scan(&id, &st.Title, &status, &point, &votes, &finished); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		st.ID = domain.StoryID(id)
		st.Status = domain.StoryStatus(status)
		if point.Valid {
			v := domain.VoteValue(point.String)
			st.FinalPoint = &v
		}
		if err := json.Unmarshal([]byte(votes), &st.Votes); err != nil {
			return nil, fmt.Errorf("decode votes: %w", err)
		}
		st.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, st)
	}
	return out, rows.Err()
}

// ChatCount reports how many archived messages a room has.
func (s *SQLite) ChatCount(ctx context.Context, room domain.RoomID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages WHERE room_id = ?`, string(room)).Scan(&n)
	return n, err
}
