package session

import (
	"sync"
	"time"

	"model-studio/internal/directive"
)

// Session remembers a user's last selections so a captionless photo can
// reuse them.
type Session struct {
	UserID       int64
	Username     string
	Selections   directive.RawInput
	LastActivity time.Time
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      now,
	}
}

// Selections returns a copy of the stored selections; expired sessions read
// as empty.
func (s *Store) Selections(userID int64) directive.RawInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || s.expiredLocked(sess) {
		return directive.RawInput{}
	}
	sess.LastActivity = s.now()
	return sess.Selections.Clone()
}

// Merge applies updates on top of the stored selections. A key mapped to no
// values is removed.
func (s *Store) Merge(userID int64, username string, updates directive.RawInput) directive.RawInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID, username)
	for key, values := range updates {
		sess.Selections.Set(key, values...)
	}
	sess.LastActivity = s.now()
	return sess.Selections.Clone()
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.Selections = directive.RawInput{}
		sess.LastActivity = s.now()
	}
}

// Prune drops expired sessions and returns how many were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expiredLocked(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expiredLocked(sess *Session) bool {
	return s.now().Sub(sess.LastActivity) > s.ttl
}

func (s *Store) getOrCreateLocked(userID int64, username string) *Session {
	if sess, ok := s.sessions[userID]; ok {
		if s.expiredLocked(sess) {
			sess.Selections = directive.RawInput{}
		}
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		UserID:       userID,
		Username:     username,
		Selections:   directive.RawInput{},
		LastActivity: s.now(),
	}
	s.sessions[userID] = sess
	return sess
}
