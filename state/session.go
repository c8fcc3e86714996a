// Package state persists the last selected device and focused pane between
// runs. Persistence is a convenience: every read or write failure degrades to
// an empty session and is only visible in the debug log.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"midiscope/config"
	"midiscope/debug"
	"midiscope/midi"
)

const sessionFile = "session.json"

// Focus is the pane that receives navigation keys
type Focus int

const (
	Left Focus = iota
	Right
)

func (f Focus) String() string {
	if f == Right {
		return "Right"
	}
	return "Left"
}

func (f Focus) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Focus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Left":
		*f = Left
	case "Right":
		*f = Right
	default:
		return fmt.Errorf("unknown focus %q", text)
	}
	return nil
}

// Session is what survives a restart
type Session struct {
	LastDevice *midi.Identity `json:"last_device"`
	LastFocus  *Focus         `json:"last_focus"`
}

// DefaultPath is session.json in the per-user config directory
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// Store reads and writes a Session at a fixed path. An empty path disables
// persistence.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the saved session, or an empty one if there is none or it
// cannot be read
func (s *Store) Load() Session {
	sess, err := s.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			debug.Named("state").Warn("session not restored", zap.String("path", s.path), zap.Error(err))
		}
		return Session{}
	}
	return sess
}

func (s *Store) read() (Session, error) {
	var sess Session
	if s.path == "" {
		return sess, fs.ErrNotExist
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return sess, err
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Save writes the session, creating the directory if needed. Failures are
// logged and otherwise ignored.
func (s *Store) Save(sess Session) {
	if s.path == "" {
		return
	}
	if err := s.write(sess); err != nil {
		debug.Named("state").Warn("session not saved", zap.String("path", s.path), zap.Error(err))
	}
}

func (s *Store) write(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
