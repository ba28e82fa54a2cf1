package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"daily-riddle-service/internal/domain"
	"github.com/google/uuid"
)

// PuzzleStore persists scheduled puzzles (Postgres, in-memory, or a caching
// decorator over either). Create must translate a uniqueness violation on
// the day column into domain.ErrDayTaken, whichever concrete store backs it;
// the store-level constraint is the source of truth, the advisory check in
// CreatePuzzle only exists for fast feedback.
type PuzzleStore interface {
	Create(ctx context.Context, puzzle domain.Puzzle) error
	FindByID(ctx context.Context, id string) (domain.Puzzle, error)
	// List returns every puzzle ordered by day ascending, then creation order.
	List(ctx context.Context) ([]domain.Puzzle, error)
}

// PuzzleService contains the daily riddle use cases.
type PuzzleService struct {
	store  PuzzleStore
	ledger *Ledger
	feed   *scoreFeed
	zone   *time.Location
	now    func() time.Time
}

// NewPuzzleService wires the service. zone is the single reference frame
// used whenever the server derives a day from its own clock; callers of
// TodayPuzzle supply their local day explicitly and no zone inference
// ever happens on their behalf.
func NewPuzzleService(store PuzzleStore, ledger *Ledger, zone *time.Location) *PuzzleService {
	if zone == nil {
		zone = time.UTC
	}
	return &PuzzleService{
		store:  store,
		ledger: ledger,
		feed:   newScoreFeed(),
		zone:   zone,
		now:    time.Now,
	}
}

// NewPuzzleServiceWithClock is test-only for deterministic timestamps.
func NewPuzzleServiceWithClock(store PuzzleStore, ledger *Ledger, zone *time.Location, now func() time.Time) *PuzzleService {
	s := NewPuzzleService(store, ledger, zone)
	s.now = now
	return s
}

// ResolveActive selects today's puzzle from an ordered collection.
// Future-dated puzzles are skipped before any matching happens, so a
// misconfigured schedule can never leak early; among the rest the exact
// day match wins. Duplicate matches violate the one-per-day invariant and
// are resolved by creation order with a logged consistency fault, never a
// caller-visible error. Absence is domain.ErrPuzzleNotFound.
func ResolveActive(now domain.Day, puzzles []domain.Puzzle) (domain.Puzzle, error) {
	var match domain.Puzzle
	found := false
	for _, p := range puzzles {
		if p.Day.After(now) {
			continue
		}
		if !p.Day.Equal(now) {
			continue
		}
		if found {
			log.Printf("consistency fault: puzzles %s and %s share day %s", match.ID, p.ID, now)
			if p.CreatedAt.Before(match.CreatedAt) {
				match = p
			}
			continue
		}
		match = p
		found = true
	}
	if !found {
		return domain.Puzzle{}, domain.ErrPuzzleNotFound
	}
	// Re-verify before returning; a stale read must not beat the embargo.
	if match.Day.After(now) || !match.Day.Equal(now) {
		return domain.Puzzle{}, domain.ErrPuzzleNotFound
	}
	return match, nil
}

// TodayPuzzle resolves the puzzle active on the caller's own calendar day,
// passed as YYYY-MM-DD. The day is taken at face value: it is the caller's
// frame, and every comparison below happens between plain triples.
func (s *PuzzleService) TodayPuzzle(ctx context.Context, localDay string) (domain.PublicPuzzle, error) {
	day, err := domain.ParseDay(localDay)
	if err != nil {
		return domain.PublicPuzzle{}, err
	}
	puzzles, err := s.store.List(ctx)
	if err != nil {
		return domain.PublicPuzzle{}, fmt.Errorf("list puzzles: %w", err)
	}
	puzzle, err := ResolveActive(day, puzzles)
	if err != nil {
		return domain.PublicPuzzle{}, err
	}
	return puzzle.Public(), nil
}

// CreatePuzzle schedules a new puzzle. The availability scan gives fast
// feedback; the race it cannot close is caught by the store's unique
// constraint, surfaced as the same domain.ErrDayTaken.
func (s *PuzzleService) CreatePuzzle(ctx context.Context, content, solution, dayStr string) (domain.Puzzle, error) {
	day, err := domain.ParseDay(dayStr)
	if err != nil {
		return domain.Puzzle{}, err
	}

	available, err := s.dayAvailable(ctx, day)
	if err != nil {
		return domain.Puzzle{}, err
	}
	if !available {
		return domain.Puzzle{}, domain.ErrDayTaken
	}

	puzzle := domain.Puzzle{
		ID:        uuid.NewString(),
		Content:   content,
		Solution:  strings.TrimSpace(solution),
		Day:       day,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, puzzle); err != nil {
		return domain.Puzzle{}, err
	}
	return puzzle, nil
}

// CheckDayAvailable reports whether a day is still free to schedule.
func (s *PuzzleService) CheckDayAvailable(ctx context.Context, dayStr string) (bool, error) {
	day, err := domain.ParseDay(dayStr)
	if err != nil {
		return false, err
	}
	return s.dayAvailable(ctx, day)
}

func (s *PuzzleService) dayAvailable(ctx context.Context, day domain.Day) (bool, error) {
	puzzles, err := s.store.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list puzzles: %w", err)
	}
	for _, p := range puzzles {
		if p.Day.Equal(day) {
			return false, nil
		}
	}
	return true, nil
}

// ListPuzzles returns every scheduled puzzle without solutions, newest day
// first. Intended for the administrative schedule view.
func (s *PuzzleService) ListPuzzles(ctx context.Context) ([]domain.PublicPuzzle, error) {
	puzzles, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	public := make([]domain.PublicPuzzle, 0, len(puzzles))
	for _, p := range puzzles {
		public = append(public, p.Public())
	}
	sort.Slice(public, func(i, j int) bool {
		return public[i].Day.After(public[j].Day)
	})
	return public, nil
}

// ServerToday returns the server's own calendar day in the configured
// reference zone. This is the only place the service turns an instant into
// a day.
func (s *PuzzleService) ServerToday() domain.Day {
	return domain.DayOf(s.now(), s.zone)
}

// SubmitGuess grades and records one guess for an (identity, puzzle) pair,
// then pushes the refreshed standing to any live subscribers.
func (s *PuzzleService) SubmitGuess(ctx context.Context, identity, puzzleID, text string) (domain.GuessAttempt, error) {
	puzzle, err := s.store.FindByID(ctx, puzzleID)
	if err != nil {
		return domain.GuessAttempt{}, err
	}
	attempt, err := s.ledger.Record(ctx, identity, puzzle, text)
	if err != nil {
		return domain.GuessAttempt{}, err
	}

	if summary, err := s.ledger.Summary(ctx, identity); err != nil {
		log.Printf("score summary for %s: %v", identity, err)
	} else {
		s.feed.publish(identity, summary)
	}
	return attempt, nil
}

// Score returns the identity's standing across all attempted puzzles.
func (s *PuzzleService) Score(ctx context.Context, identity string) (domain.ScoreSummary, error) {
	return s.ledger.Summary(ctx, identity)
}

// Subscribe returns a channel receiving score updates for an identity.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *PuzzleService) Subscribe(_ context.Context, identity string) (<-chan domain.ScoreSummary, func()) {
	return s.feed.subscribe(identity)
}
