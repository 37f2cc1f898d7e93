// Package history holds per-user conversation state and keeps it bounded.
//
// The store is a process-wide in-memory map with no persistence across
// restarts: conversational context is ephemeral by design. There is no TTL
// or eviction for abandoned users.
package history

import (
	"sync"
	"time"

	"github.com/datamining-co/minai/internal/domain"
)

// Store is the in-memory conversation store keyed by user ID.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	locks         map[string]*sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*domain.Conversation),
		locks:         make(map[string]*sync.Mutex),
	}
}

// LockUser serializes read-modify-write access for one user and returns
// the unlock function. The whole turn (load, backend call, compaction,
// persist) must run under this lock: two concurrent turns for the same
// user would otherwise race and lose history. Different users are never
// blocked by each other.
func (s *Store) LockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get returns the conversation for userID, or nil if none exists. Unlike
// GetOrCreate it never materializes an empty record.
func (s *Store) Get(userID string) *domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversations[userID]
}

// GetOrCreate returns the conversation for userID, creating an empty one
// on first access.
func (s *Store) GetOrCreate(userID string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		conv = &domain.Conversation{UserID: userID}
		s.conversations[userID] = conv
	}
	return conv
}

// Clear removes the conversation for userID entirely, reporting whether
// one existed. The per-user lock entry is kept so that an in-flight turn
// for the same user stays serialized.
func (s *Store) Clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.conversations[userID]
	if ok {
		delete(s.conversations, userID)
	}
	return ok
}

// Stats returns a read-only snapshot for userID, or false if no
// conversation exists. Conversation fields are guarded by the per-user
// lock, not the map mutex: an in-flight turn mutates them holding only
// that lock, so Stats must take it too.
func (s *Store) Stats(userID string) (domain.Snapshot, bool) {
	unlock := s.LockUser(userID)
	defer unlock()

	s.mu.RLock()
	conv, ok := s.conversations[userID]
	s.mu.RUnlock()
	if !ok {
		return domain.Snapshot{}, false
	}
	return domain.Snapshot{
		UserID:       conv.UserID,
		MessageCount: conv.MessageCount,
		WindowSize:   len(conv.Messages),
		HasSummary:   conv.Summary != "",
		LastUpdated:  conv.LastUpdated,
	}, true
}

// Touch records a completed turn on the conversation.
func Touch(conv *domain.Conversation) {
	conv.MessageCount++
	conv.LastUpdated = time.Now()
}
