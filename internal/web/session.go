package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/promptarchitect/internal/form"
)

// ControllerFactory builds the controller for a new browser session.
type ControllerFactory func() *form.Controller

type session struct {
	ctrl     *form.Controller
	lastSeen time.Time
}

// SessionStore keeps one form controller per browser session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	factory  ControllerFactory
	now      func() time.Time
}

// NewSessionStore returns an empty store. Sessions idle for longer than ttl
// are dropped by Sweep.
func NewSessionStore(ttl time.Duration, factory ControllerFactory) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Get returns the controller for id and marks the session as used.
func (s *SessionStore) Get(id string) (*form.Controller, bool) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

// Create starts a new session and returns its id.
func (s *SessionStore) Create() (string, *form.Controller) {
	key := uuid.New()
	ctrl := s.factory()
	s.mu.Lock()
	s.sessions[key] = &session{ctrl: ctrl, lastSeen: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()
	log.Debug().Str("session", key.String()).Int("sessions", count).Msg("Created form session")
	return key.String(), ctrl
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and removes idle sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*form.Controller
	for key, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess.ctrl)
			delete(s.sessions, key)
		}
	}
	s.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	if len(expired) > 0 {
		log.Info().Int("evicted", len(expired)).Dur("ttl", s.ttl).Msg("Evicted idle form sessions")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
