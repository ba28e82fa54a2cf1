package redis

import (
	"context"
	"testing"
	"time"

	"daily-riddle-service/internal/app"
	"daily-riddle-service/internal/domain"
	"daily-riddle-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

type countingStore struct {
	app.PuzzleStore
	listCalls int
}

func (s *countingStore) List(ctx context.Context) ([]domain.Puzzle, error) {
	s.listCalls++
	return s.PuzzleStore.List(ctx)
}

func TestPuzzleCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	backing := &countingStore{PuzzleStore: memory.NewPuzzleStore()}
	if err := backing.Create(ctx, domain.Puzzle{
		ID:        "p1",
		Content:   "riddle",
		Solution:  "answer",
		Day:       domain.Day{Year: 2026, Month: time.January, Date: 7},
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cache := NewPuzzleCache(newClient(mr), backing, time.Minute)

	puzzles, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if backing.listCalls != 1 {
		t.Fatalf("expected one backing call, got %d", backing.listCalls)
	}
	if len(puzzles) != 1 || puzzles[0].Solution != "answer" {
		t.Fatalf("listing lost fields: %+v", puzzles)
	}

	// Second call should be served from Redis.
	puzzles, err = cache.List(ctx)
	if err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if backing.listCalls != 1 {
		t.Fatalf("expected cache hit, backing calls %d", backing.listCalls)
	}
	if !puzzles[0].Day.Equal(domain.Day{Year: 2026, Month: time.January, Date: 7}) {
		t.Fatalf("day lost through cache: %v", puzzles[0].Day)
	}
}

func TestPuzzleCacheDropsScheduleOnCreate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	backing := &countingStore{PuzzleStore: memory.NewPuzzleStore()}
	cache := NewPuzzleCache(newClient(mr), backing, time.Minute)

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if !mr.Exists("puzzles:schedule") {
		t.Fatalf("expected schedule key after warm")
	}

	if err := cache.Create(ctx, domain.Puzzle{
		ID:  "p1",
		Day: domain.Day{Year: 2026, Month: time.January, Date: 7},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if mr.Exists("puzzles:schedule") {
		t.Fatalf("expected schedule key invalidated")
	}

	puzzles, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if len(puzzles) != 1 {
		t.Fatalf("stale listing: %+v", puzzles)
	}
}
