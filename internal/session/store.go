// Package session keeps the signed-in user's profile on local disk so a
// restarted client comes back already signed in. Each session is replicated
// under a host-qualified key and a legacy unscoped key, so builds from before
// host scoping can still read and be read.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyeonwook/anonboard/internal/model"
)

// Store persists at most one session. Save and Clear never fail the caller:
// persistence is best-effort and a broken disk must not break sign-in.
type Store interface {
	Save(s *model.Session)
	Load() *model.Session
	Clear()
}

const (
	currentKeyPrefix = "user_"
	legacyKey        = "user"
)

// FileStore keeps sessions as a JSON object of key → session in a single
// file. Save writes both "user_<host>" and the bare "user" key; Load prefers
// the scoped key; Clear removes both.
type FileStore struct {
	path   string
	host   string
	logger *slog.Logger

	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to path, scoped to host. An empty
// path disables persistence: Load always returns nil, writes are dropped.
func NewFileStore(path, host string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, host: host, logger: logger}
}

func (st *FileStore) key() string {
	return currentKeyPrefix + st.host
}

// Save writes the session under the host-scoped key and replicates it under
// the legacy key, so an older build sharing the file keeps seeing the
// session. Serialization or disk failures are logged and swallowed.
func (st *FileStore) Save(s *model.Session) {
	if st.path == "" || s == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	entries := st.read()
	raw, err := json.Marshal(s)
	if err != nil {
		st.logger.Warn("session save failed", slog.String("error", err.Error()))
		return
	}
	entries[st.key()] = raw
	entries[legacyKey] = raw
	st.write(entries)
}

// Load returns the stored session, or nil when there is none or the stored
// data cannot be decoded. A session under the legacy key is accepted.
func (st *FileStore) Load() *model.Session {
	if st.path == "" {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	entries := st.read()
	raw, ok := entries[st.key()]
	if !ok {
		raw, ok = entries[legacyKey]
	}
	if !ok {
		return nil
	}

	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		st.logger.Warn("discarding corrupt stored session", slog.String("error", err.Error()))
		return nil
	}
	return &s
}

// Clear removes both the scoped and the legacy key.
func (st *FileStore) Clear() {
	if st.path == "" {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	entries := st.read()
	delete(entries, st.key())
	delete(entries, legacyKey)
	st.write(entries)
}

func (st *FileStore) read() map[string]json.RawMessage {
	entries := make(map[string]json.RawMessage)
	data, err := os.ReadFile(st.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			st.logger.Warn("session file unreadable", slog.String("error", err.Error()))
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		st.logger.Warn("session file corrupt, starting fresh", slog.String("error", err.Error()))
		return make(map[string]json.RawMessage)
	}
	return entries
}

func (st *FileStore) write(entries map[string]json.RawMessage) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		st.logger.Warn("session encode failed", slog.String("error", err.Error()))
		return
	}
	if dir := filepath.Dir(st.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			st.logger.Warn("session dir create failed", slog.String("error", err.Error()))
			return
		}
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		st.logger.Warn("session write failed", slog.String("error", err.Error()))
	}
}
