package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"daily-riddle-service/internal/app"
	"daily-riddle-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PuzzleCache decorates an app.PuzzleStore with a TTL cache over the full
// schedule listing, which resolution and availability checks read on every
// request. Writes pass through and drop the cached listing. A non-positive
// ttl caches until the next Create, matching the Redis decorator.
type PuzzleCache struct {
	store app.PuzzleStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Puzzle
	expiresAt time.Time
}

func NewPuzzleCache(store app.PuzzleStore, ttl time.Duration) *PuzzleCache {
	return &PuzzleCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PuzzleCache) Create(ctx context.Context, puzzle domain.Puzzle) error {
	if err := c.store.Create(ctx, puzzle); err != nil {
		return err
	}
	c.mu.Lock()
	c.cached = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	return nil
}

func (c *PuzzleCache) FindByID(ctx context.Context, id string) (domain.Puzzle, error) {
	return c.store.FindByID(ctx, id)
}

func (c *PuzzleCache) List(ctx context.Context) ([]domain.Puzzle, error) {
	now := c.clock()

	c.mu.RLock()
	if c.fresh(now) {
		out := c.cached
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("list", func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if c.fresh(now) {
			out := c.cached
			c.mu.RUnlock()
			return out, nil
		}
		c.mu.RUnlock()

		puzzles, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}
		if puzzles == nil {
			// an empty schedule is still a cacheable listing
			puzzles = []domain.Puzzle{}
		}

		c.mu.Lock()
		c.cached = puzzles
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return puzzles, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Puzzle), nil
}

// fresh is called with c.mu held in at least read mode.
func (c *PuzzleCache) fresh(now time.Time) bool {
	if c.cached == nil {
		return false
	}
	return c.ttl <= 0 || c.expiresAt.After(now)
}

func (c *PuzzleCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
