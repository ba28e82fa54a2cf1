package memory

import (
	"context"
	"errors"
	"testing"

	"daily-riddle-service/internal/domain"
)

func TestAttemptStoreKeepsOrderPerPair(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()

	for i := 1; i <= 3; i++ {
		attempt := domain.GuessAttempt{Ordinal: i, Text: "guess"}
		if err := store.Append(ctx, "u1", "p1", attempt); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := store.Append(ctx, "u1", "p2", domain.GuessAttempt{Ordinal: 1}); err != nil {
		t.Fatalf("append other pair: %v", err)
	}

	attempts, err := store.Attempts(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	for i, a := range attempts {
		if a.Ordinal != i+1 {
			t.Fatalf("position %d has ordinal %d", i, a.Ordinal)
		}
	}

	ids, err := store.PuzzleIDs(ctx, "u1")
	if err != nil {
		t.Fatalf("puzzle ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Fatalf("puzzle ids: %v", ids)
	}
}

func TestAttemptStoreRejectsOutOfSequenceOrdinal(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()

	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{Ordinal: 1}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	// A writer that read the pair before ordinal 1 landed tries to claim
	// ordinal 1 again; another skips ahead to 3. Both are conflicts.
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{Ordinal: 1}); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("duplicate ordinal: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{Ordinal: 3}); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("skipped ordinal: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{Ordinal: 2}); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	attempts, err := store.Attempts(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
}

func TestAttemptStoreEmptyPair(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()

	attempts, err := store.Attempts(ctx, "nobody", "nothing")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected no attempts, got %d", len(attempts))
	}

	ids, err := store.PuzzleIDs(ctx, "nobody")
	if err != nil {
		t.Fatalf("puzzle ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no puzzle ids, got %v", ids)
	}
}
