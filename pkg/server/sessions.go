package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/casperflow/pkg/editor"
)

// DefaultSessionTTL is how long an untouched session survives.
const DefaultSessionTTL = 2 * time.Hour

type session struct {
	editor   *editor.Editor
	created  time.Time
	lastUsed time.Time
}

// sessions is the registry of live editors.
type sessions struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*session
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time
}

func newSessions(ttl time.Duration, logger *log.Logger) *sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessions{
		byID:   make(map[uuid.UUID]*session),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *sessions) create() uuid.UUID {
	id := uuid.New()
	now := s.now()
	ed := editor.New(editor.Options{Logger: s.logger.With("session", id.String())})

	s.mu.Lock()
	s.byID[id] = &session{editor: ed, created: now, lastUsed: now}
	s.mu.Unlock()
	return id
}

// get returns the session's editor and marks it used.
func (s *sessions) get(id uuid.UUID) (*editor.Editor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = s.now()
	return sess.editor, true
}

func (s *sessions) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok
}

func (s *sessions) ids() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	return out
}

// cleanup drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (s *sessions) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.byID {
		if sess.lastUsed.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}
