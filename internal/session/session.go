// Package session keeps per-visitor state on the server, keyed by an
// opaque cookie: the login flag, the username, flash messages and the
// word game in progress.
package session

import (
	"encoding/gob"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"picfolio/internal/config"
	"picfolio/internal/guess"
	"picfolio/internal/logger"
)

const (
	CookieName = "picfolio-session"

	keyLoggedIn = "logged_in"
	keyUsername = "username"
	keyGame     = "guess_game"

	// Session files hold the game history, which outgrows securecookie's 4 KiB default.
	maxSessionBytes = 64 * 1024
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

func init() {
	gob.Register(Flash{})
	gob.Register(guess.State{})
}

// Manager loads and saves sessions from a server-side store.
type Manager struct {
	store sessions.Store
}

// NewManager creates a filesystem-backed session store under cfg.SessionDir.
func NewManager(cfg *config.Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.SessionDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := sessions.NewFilesystemStore(cfg.SessionDir, cfg.SessionSecret)
	store.MaxLength(maxSessionBytes)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   false, // Set to false for HTTP (localhost development)
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}, nil
}

// NewManagerWithStore wraps any gorilla store, e.g. a CookieStore in tests.
func NewManagerWithStore(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// Get returns the visitor's session. An unreadable or expired cookie
// yields a fresh session rather than an error.
func (m *Manager) Get(r *http.Request) *Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		logger.Debug("discarding unreadable session", zap.Error(err))
	}
	if s == nil {
		s = sessions.NewSession(m.store, CookieName)
		s.IsNew = true
	}
	return &Session{s: s}
}

// Session is one visitor's state for the duration of a request.
type Session struct {
	s *sessions.Session
}

// Login marks the session authenticated as username.
func (s *Session) Login(username string) {
	s.s.Values[keyLoggedIn] = true
	s.s.Values[keyUsername] = username
}

// Logout clears the authentication fields only; game state survives.
func (s *Session) Logout() {
	delete(s.s.Values, keyLoggedIn)
	delete(s.s.Values, keyUsername)
}

func (s *Session) IsLoggedIn() bool {
	v, _ := s.s.Values[keyLoggedIn].(bool)
	return v
}

// Username returns "" when nobody is logged in.
func (s *Session) Username() string {
	if !s.IsLoggedIn() {
		return ""
	}
	v, _ := s.s.Values[keyUsername].(string)
	return v
}

func (s *Session) AddFlash(category, message string) {
	s.s.AddFlash(Flash{Category: category, Message: message})
}

// Flashes returns and clears pending flash messages.
func (s *Session) Flashes() []Flash {
	var out []Flash
	for _, f := range s.s.Flashes() {
		if flash, ok := f.(Flash); ok {
			out = append(out, flash)
		}
	}
	return out
}

// GameState returns the stored word game or nil if none is active.
func (s *Session) GameState() *guess.State {
	v, ok := s.s.Values[keyGame].(guess.State)
	if !ok {
		return nil
	}
	return &v
}

func (s *Session) SetGameState(state *guess.State) {
	s.s.Values[keyGame] = *state
}

func (s *Session) ClearGameState() {
	delete(s.s.Values, keyGame)
}

// Save writes the session and refreshes the cookie.
func (s *Session) Save(w http.ResponseWriter, r *http.Request) error {
	return s.s.Save(r, w)
}
