package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-riddle-service/internal/domain"
)

func TestPuzzleStoreRejectsDuplicateDay(t *testing.T) {
	ctx := context.Background()
	store := NewPuzzleStore()
	day := domain.Day{Year: 2026, Month: time.January, Date: 7}

	if err := store.Create(ctx, domain.Puzzle{ID: "p1", Day: day}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, domain.Puzzle{ID: "p2", Day: day}); !errors.Is(err, domain.ErrDayTaken) {
		t.Fatalf("expected day taken, got %v", err)
	}
}

func TestPuzzleStoreListOrdersByDay(t *testing.T) {
	ctx := context.Background()
	store := NewPuzzleStore()
	days := []string{"2026-01-03", "2026-01-01", "2026-01-02"}
	for i, s := range days {
		day, err := domain.ParseDay(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if err := store.Create(ctx, domain.Puzzle{ID: s, Day: day, CreatedAt: time.Now().Add(time.Duration(i))}); err != nil {
			t.Fatalf("create %s: %v", s, err)
		}
	}

	puzzles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2026-01-01", "2026-01-02", "2026-01-03"}
	for i, p := range puzzles {
		if p.ID != want[i] {
			t.Fatalf("position %d: %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestPuzzleStoreFindByID(t *testing.T) {
	ctx := context.Background()
	store := NewPuzzleStore()
	puzzle := domain.Puzzle{ID: "p1", Day: domain.Day{Year: 2026, Month: time.January, Date: 7}, Solution: "answer"}
	if err := store.Create(ctx, puzzle); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := store.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Solution != "answer" {
		t.Fatalf("expected stored solution, got %q", found.Solution)
	}

	if _, err := store.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrPuzzleNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
