package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// Store persists at most one Record. Save overwrites, Clear forgets.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, ErrNoSession
	}
	return *m.rec, nil
}

func (m *MemoryStore) Save(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &r
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

// FileStore keeps the record as a JSON object with the single session Key,
// the on-disk equivalent of browser local storage.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (f *FileStore) Load() (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNoSession
	}
	if err != nil {
		return Record{}, fmt.Errorf("read session: %w", err)
	}
	var doc map[string]Record
	if err := json.Unmarshal(b, &doc); err != nil {
		_ = os.Remove(f.Path)
		return Record{}, ErrNoSession
	}
	rec, ok := doc[Key]
	if !ok {
		return Record{}, ErrNoSession
	}
	if !rec.Valid() {
		_ = os.Remove(f.Path)
		return Record{}, ErrNoSession
	}
	return rec, nil
}

func (f *FileStore) Save(r Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := json.Marshal(map[string]Record{Key: r})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
