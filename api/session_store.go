package api

import (
	"log"
	"sync"
	"time"

	"weatherapp/session"

	"github.com/google/uuid"
)

// sessionEntry serializes events on one session
type sessionEntry struct {
	mu       sync.Mutex
	session  *session.Session
	lastSeen time.Time
}

// SessionStore holds live selection sessions by ID
type SessionStore struct {
	data    map[string]*sessionEntry
	mutex   sync.RWMutex
	factory func() *session.Session
	now     func() time.Time
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore(factory func() *session.Session) *SessionStore {
	return &SessionStore{
		data:    make(map[string]*sessionEntry),
		factory: factory,
		now:     time.Now,
	}
}

// Create starts a new session in the Browsing state and returns its ID
func (s *SessionStore) Create() (string, session.View) {
	id := uuid.NewString()
	entry := &sessionEntry{
		session:  s.factory(),
		lastSeen: s.now(),
	}

	s.mutex.Lock()
	s.data[id] = entry
	s.mutex.Unlock()

	return id, entry.session.View()
}

// Do runs fn against the session with exclusive access
func (s *SessionStore) Do(id string, fn func(*session.Session) error) (session.View, bool, error) {
	s.mutex.RLock()
	entry, exists := s.data[id]
	s.mutex.RUnlock()

	if !exists {
		return session.View{}, false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.lastSeen = s.now()
	if fn != nil {
		if err := fn(entry.session); err != nil {
			return session.View{}, true, err
		}
	}
	return entry.session.View(), true, nil
}

// Delete ends a session
func (s *SessionStore) Delete(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, exists := s.data[id]
	delete(s.data, id)
	return exists
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// PruneIdleSessions removes sessions untouched for longer than maxIdle
func (s *SessionStore) PruneIdleSessions(maxIdle time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-maxIdle)
	prunedCount := 0

	for id, entry := range s.data {
		entry.mu.Lock()
		idle := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()

		if idle {
			delete(s.data, id)
			prunedCount++
		}
	}

	if prunedCount > 0 {
		log.Printf("Pruned %d idle sessions", prunedCount)
	}
	return prunedCount
}
