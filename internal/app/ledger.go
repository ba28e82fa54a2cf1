package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"daily-riddle-service/internal/domain"
	"github.com/google/uuid"
)

// AttemptStore persists guess attempts per (identity, puzzle) pair. The
// same interface backs the anonymous in-process ledger and the
// identity-keyed remote ledgers, so scoring semantics cannot diverge
// between them.
type AttemptStore interface {
	// Attempts returns the pair's attempts in ordinal order.
	Attempts(ctx context.Context, identity, puzzleID string) ([]domain.GuessAttempt, error)
	// Append adds one attempt; attempts are never mutated or deleted.
	Append(ctx context.Context, identity, puzzleID string, attempt domain.GuessAttempt) error
	// PuzzleIDs lists every puzzle the identity has attempted.
	PuzzleIDs(ctx context.Context, identity string) ([]string, error)
}

// Ledger derives scores from an append-only attempt log. It is also the
// enforcement point for the already-solved gate: once a pair has a correct
// attempt, Record refuses further writes rather than trusting callers to
// check first.
type Ledger struct {
	store AttemptStore
	now   func() time.Time

	mu    sync.Mutex
	pairs map[string]*sync.Mutex
}

func NewLedger(store AttemptStore) *Ledger {
	return NewLedgerWithClock(store, time.Now)
}

// NewLedgerWithClock is test-only for deterministic timestamps.
func NewLedgerWithClock(store AttemptStore, now func() time.Time) *Ledger {
	return &Ledger{store: store, now: now, pairs: make(map[string]*sync.Mutex)}
}

// pairLock serializes Record's read-then-append window per
// (identity, puzzle) pair within this process. Stores additionally reject
// out-of-sequence ordinals at write time, which covers writers in other
// processes sharing the same backing store.
func (l *Ledger) pairLock(identity, puzzleID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := identity + "\x00" + puzzleID
	lock, ok := l.pairs[key]
	if !ok {
		lock = &sync.Mutex{}
		l.pairs[key] = lock
	}
	return lock
}

// Record grades text against the puzzle's solution and appends the attempt
// with the next dense ordinal. Returns domain.ErrAlreadySolved once the
// pair has a correct attempt on file.
func (l *Ledger) Record(ctx context.Context, identity string, puzzle domain.Puzzle, text string) (domain.GuessAttempt, error) {
	lock := l.pairLock(identity, puzzle.ID)
	lock.Lock()
	defer lock.Unlock()

	attempts, err := l.store.Attempts(ctx, identity, puzzle.ID)
	if err != nil {
		return domain.GuessAttempt{}, err
	}
	for _, a := range attempts {
		if a.Correct {
			return domain.GuessAttempt{}, domain.ErrAlreadySolved
		}
	}

	attempt := domain.GuessAttempt{
		ID:          uuid.NewString(),
		Ordinal:     len(attempts) + 1,
		Text:        strings.TrimSpace(text),
		Correct:     Grade(text, puzzle.Solution),
		SubmittedAt: l.now(),
	}
	if err := l.store.Append(ctx, identity, puzzle.ID, attempt); err != nil {
		return domain.GuessAttempt{}, err
	}
	return attempt, nil
}

// ScoreFor returns the pair's attempt count (the highest ordinal).
func (l *Ledger) ScoreFor(ctx context.Context, identity, puzzleID string) (int, error) {
	attempts, err := l.store.Attempts(ctx, identity, puzzleID)
	if err != nil {
		return 0, err
	}
	return len(attempts), nil
}

// IsSolved reports whether any attempt for the pair was correct.
func (l *Ledger) IsSolved(ctx context.Context, identity, puzzleID string) (bool, error) {
	attempts, err := l.store.Attempts(ctx, identity, puzzleID)
	if err != nil {
		return false, err
	}
	for _, a := range attempts {
		if a.Correct {
			return true, nil
		}
	}
	return false, nil
}

// Summary recomputes the identity's full standing from the underlying
// attempts. Puzzles with zero attempts never appear and contribute nothing.
func (l *Ledger) Summary(ctx context.Context, identity string) (domain.ScoreSummary, error) {
	puzzleIDs, err := l.store.PuzzleIDs(ctx, identity)
	if err != nil {
		return domain.ScoreSummary{}, err
	}
	sort.Strings(puzzleIDs)

	summary := domain.ScoreSummary{
		Identity:  identity,
		PerPuzzle: make([]domain.PuzzleScore, 0, len(puzzleIDs)),
		UpdatedAt: l.now(),
	}
	for _, puzzleID := range puzzleIDs {
		attempts, err := l.store.Attempts(ctx, identity, puzzleID)
		if err != nil {
			return domain.ScoreSummary{}, err
		}
		if len(attempts) == 0 {
			continue
		}
		score := domain.PuzzleScore{
			PuzzleID: puzzleID,
			Score:    len(attempts),
			Guesses:  make([]string, 0, len(attempts)),
		}
		for _, a := range attempts {
			score.Guesses = append(score.Guesses, a.Text)
			if a.Correct {
				score.Solved = true
			}
		}
		summary.PerPuzzle = append(summary.PerPuzzle, score)
		summary.GrandTotal += score.Score
	}
	return summary, nil
}
