// Package appstate persists the logged-in user and token between CLI runs.
package appstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/smartstudy/internal/study"
)

// State is the locally remembered session of one user.
type State struct {
	Token string      `yaml:"token,omitempty"`
	User  *study.User `yaml:"user,omitempty"`
	Theme study.Theme `yaml:"theme,omitempty"`
}

// DefaultPath returns $SMARTSTUDY_STATE, or state.yaml under the user
// config directory.
func DefaultPath() string {
	if p := os.Getenv("SMARTSTUDY_STATE"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if d, err := os.UserConfigDir(); err == nil {
			dir = d
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "smartstudy", "state.yaml")
}

// Load reads the state file. A missing file yields an empty State.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the state with owner-only permissions.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// SetLogin records a successful login.
func (s *State) SetLogin(token string, u study.User) {
	s.Token = token
	s.User = &u
	if u.Theme != "" {
		s.Theme = u.Theme
	}
}

// Clear forgets the user and token. The theme preference survives logout.
func (s *State) Clear() {
	s.Token = ""
	s.User = nil
}

// LoggedIn reports whether a token and user are present.
func (s *State) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// CurrentTheme returns the stored theme, dark when unset.
func (s *State) CurrentTheme() study.Theme {
	if s.Theme == study.ThemeLight {
		return study.ThemeLight
	}
	return study.ThemeDark
}
