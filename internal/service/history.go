package service

import "github.com/datamining-co/minai/internal/domain"

// ClearHistory removes all stored state for a user, reporting whether any
// existed.
func (s *Service) ClearHistory(userID string) bool {
	return s.store.Clear(userID)
}

// GetStats returns a read-only snapshot of a user's conversation.
func (s *Service) GetStats(userID string) (domain.Snapshot, bool) {
	return s.store.Stats(userID)
}
