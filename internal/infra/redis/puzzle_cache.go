package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"daily-riddle-service/internal/app"
	"daily-riddle-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const scheduleKey = "puzzles:schedule"

// PuzzleCache decorates an app.PuzzleStore with a Redis cache of the full
// schedule listing, so several instances share one warm copy. Solutions are
// part of the cached payload; Redis here is server-side infrastructure, the
// same trust boundary as the database. Cache misses fall through to the
// backing store, and Redis errors degrade to a plain load rather than
// failing the request. A non-positive ttl stores the listing without
// expiry, leaving Create invalidation as the only refresh trigger.
type PuzzleCache struct {
	client *redis.Client
	store  app.PuzzleStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPuzzleCache(client *redis.Client, store app.PuzzleStore, ttl time.Duration) *PuzzleCache {
	return &PuzzleCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PuzzleCache) Create(ctx context.Context, puzzle domain.Puzzle) error {
	if err := c.store.Create(ctx, puzzle); err != nil {
		return err
	}
	// best-effort invalidation; the TTL bounds staleness if this fails
	_ = c.client.Del(ctx, scheduleKey).Err()
	return nil
}

func (c *PuzzleCache) FindByID(ctx context.Context, id string) (domain.Puzzle, error) {
	return c.store.FindByID(ctx, id)
}

func (c *PuzzleCache) List(ctx context.Context) ([]domain.Puzzle, error) {
	if puzzles, ok := c.cached(ctx); ok {
		return puzzles, nil
	}

	result, err, _ := c.sf.Do(scheduleKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if puzzles, ok := c.cached(ctx); ok {
			return puzzles, nil
		}

		puzzles, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(puzzles); err == nil {
			_ = c.client.Set(ctx, scheduleKey, data, c.ttlWithJitter()).Err()
		}
		return puzzles, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Puzzle), nil
}

func (c *PuzzleCache) cached(ctx context.Context) ([]domain.Puzzle, bool) {
	data, err := c.client.Get(ctx, scheduleKey).Bytes()
	if err != nil {
		return nil, false
	}
	var puzzles []domain.Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, false
	}
	return puzzles, true
}

func (c *PuzzleCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
