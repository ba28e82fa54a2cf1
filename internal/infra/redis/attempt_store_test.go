package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-riddle-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestAttemptStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr), 0)

	first := domain.GuessAttempt{
		ID:          "a1",
		Ordinal:     1,
		Text:        "wrong",
		Correct:     false,
		SubmittedAt: time.Date(2026, time.January, 7, 9, 0, 0, 0, time.UTC),
	}
	second := domain.GuessAttempt{
		ID:          "a2",
		Ordinal:     2,
		Text:        "right",
		Correct:     true,
		SubmittedAt: time.Date(2026, time.January, 7, 9, 1, 0, 0, time.UTC),
	}
	if err := store.Append(ctx, "u1", "p1", first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", second); err != nil {
		t.Fatalf("append second: %v", err)
	}

	attempts, err := store.Attempts(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].ID != "a1" || attempts[1].ID != "a2" {
		t.Fatalf("order lost: %+v", attempts)
	}
	if !attempts[1].Correct || !attempts[1].SubmittedAt.Equal(second.SubmittedAt) {
		t.Fatalf("fields lost: %+v", attempts[1])
	}

	ids, err := store.PuzzleIDs(ctx, "u1")
	if err != nil {
		t.Fatalf("puzzle ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "p1" {
		t.Fatalf("puzzle ids: %v", ids)
	}
}

func TestAttemptStoreRejectsOutOfSequenceOrdinal(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr), 0)

	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{ID: "a1", Ordinal: 1}); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{ID: "dup", Ordinal: 1}); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("duplicate ordinal: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{ID: "skip", Ordinal: 3}); !errors.Is(err, domain.ErrAttemptConflict) {
		t.Fatalf("skipped ordinal: %v", err)
	}
	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{ID: "a2", Ordinal: 2}); err != nil {
		t.Fatalf("append 2: %v", err)
	}

	attempts, err := store.Attempts(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 2 || attempts[0].ID != "a1" || attempts[1].ID != "a2" {
		t.Fatalf("rejected attempts leaked into the list: %+v", attempts)
	}
}

func TestAttemptStoreAppliesTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewAttemptStore(newClient(mr), time.Hour)

	if err := store.Append(ctx, "u1", "p1", domain.GuessAttempt{ID: "a1", Ordinal: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if mr.TTL("attempts:u1:p1") != time.Hour {
		t.Fatalf("expected TTL on attempts key, got %v", mr.TTL("attempts:u1:p1"))
	}
	if mr.TTL("attempted:u1") != time.Hour {
		t.Fatalf("expected TTL on attempted set, got %v", mr.TTL("attempted:u1"))
	}

	mr.FastForward(2 * time.Hour)
	attempts, err := store.Attempts(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("attempts after expiry: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected expired attempts, got %d", len(attempts))
	}
}
