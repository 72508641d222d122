package session

import (
	"sync"
	"time"

	"RocketClient/internal/backend"

	"github.com/google/uuid"
)

// State is the client-side view of the backend session. It holds no
// credentials; the session cookie lives in the HTTP client's jar and the
// backend is the only authority on whether it is still valid.
type State struct {
	mu       sync.RWMutex
	loggedIn bool
	username string
}

// NewState returns a logged-out state
func NewState() *State {
	return &State{}
}

// LoggedIn reports the result of the most recent auth check or login
func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Set records the outcome of an auth check. Logging out also forgets the username.
func (s *State) Set(loggedIn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = loggedIn
	if !loggedIn {
		s.username = ""
	}
}

// SetUser marks the session as logged in for username
func (s *State) SetUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.username = username
}

// Username returns the user known from the last login, if any
func (s *State) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Transcript is the local record of a chat session in the shell
type Transcript struct {
	ID        string                `json:"id"`
	StartTime time.Time             `json:"start_time"`
	BaseURL   string                `json:"base_url"`
	Messages  []backend.ChatMessage `json:"messages"`
}

// NewTranscript starts an empty transcript for the given backend
func NewTranscript(baseURL string) *Transcript {
	return &Transcript{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		BaseURL:   baseURL,
		Messages:  []backend.ChatMessage{},
	}
}
