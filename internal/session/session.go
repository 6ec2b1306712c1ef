// Package session persists the token pair of the active login. Tokens
// are opaque to the client; they go to disk exactly as the server
// minted them and come back the same way.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Session is one saved login.
type Session struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

// LoggedIn reports whether the session carries an access token.
func (s Session) LoggedIn() bool { return s.AccessToken != "" }

// DefaultPath returns the session file location under home.
func DefaultPath(home string) string {
	return filepath.Join(home, ".local", "state", "flowboard", "session.yaml")
}

// Store reads and writes one session file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the saved session. A missing file is an empty session, not
// an error.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("parse session file: %w", err)
	}
	return normalize(sess), nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(normalize(sess))
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session file. Clearing an absent session is a
// no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func normalize(s Session) Session {
	s.AccessToken = strings.TrimSpace(s.AccessToken)
	s.RefreshToken = strings.TrimSpace(s.RefreshToken)
	return s
}
