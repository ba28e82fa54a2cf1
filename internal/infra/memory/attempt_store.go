package memory

import (
	"context"
	"sort"
	"sync"

	"daily-riddle-service/internal/domain"
)

// AttemptStore keeps guess attempts in process memory, keyed by
// (identity, puzzle). This is the anonymous "client-held" ledger modeled as
// an injected store, so it is interchangeable with the remote ones.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]map[string][]domain.GuessAttempt // identity -> puzzleID -> attempts
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]map[string][]domain.GuessAttempt)}
}

func (s *AttemptStore) Attempts(_ context.Context, identity, puzzleID string) ([]domain.GuessAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempts := s.attempts[identity][puzzleID]
	out := make([]domain.GuessAttempt, len(attempts))
	copy(out, attempts)
	return out, nil
}

// Append admits the attempt only if its ordinal is the next in sequence,
// playing the role of the database primary key: a concurrent writer that
// lost the race is rejected, never interleaved.
func (s *AttemptStore) Append(_ context.Context, identity, puzzleID string, attempt domain.GuessAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempts[identity] == nil {
		s.attempts[identity] = make(map[string][]domain.GuessAttempt)
	}
	existing := s.attempts[identity][puzzleID]
	if attempt.Ordinal != len(existing)+1 {
		return domain.ErrAttemptConflict
	}
	s.attempts[identity][puzzleID] = append(existing, attempt)
	return nil
}

func (s *AttemptStore) PuzzleIDs(_ context.Context, identity string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.attempts[identity]))
	for id := range s.attempts[identity] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
