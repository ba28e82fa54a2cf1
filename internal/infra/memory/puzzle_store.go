package memory

import (
	"context"
	"sort"
	"sync"

	"daily-riddle-service/internal/domain"
)

// PuzzleStore is an in-memory implementation of app.PuzzleStore, useful for
// tests, demos, and running without Postgres. The day-uniqueness check at
// write time plays the role of the database unique index.
type PuzzleStore struct {
	mu      sync.RWMutex
	puzzles []domain.Puzzle // creation order
}

func NewPuzzleStore() *PuzzleStore {
	return &PuzzleStore{}
}

func (s *PuzzleStore) Create(_ context.Context, puzzle domain.Puzzle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.puzzles {
		if p.Day.Equal(puzzle.Day) {
			return domain.ErrDayTaken
		}
	}
	s.puzzles = append(s.puzzles, puzzle)
	return nil
}

func (s *PuzzleStore) FindByID(_ context.Context, id string) (domain.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.puzzles {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Puzzle{}, domain.ErrPuzzleNotFound
}

func (s *PuzzleStore) List(_ context.Context) ([]domain.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Puzzle, len(s.puzzles))
	copy(out, s.puzzles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Day.After(out[i].Day)
	})
	return out, nil
}
