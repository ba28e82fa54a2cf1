package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"daily-riddle-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AttemptStore keeps guess attempts in Redis, one list per
// (identity, puzzle) pair plus a set of attempted puzzle ids per identity:
//
//	RPUSH attempts:{identity}:{puzzleID} {attempt JSON}
//	SADD  attempted:{identity} {puzzleID}
//
// Lists are append-only, matching the ledger's contract. A zero TTL keeps
// entries forever; a positive TTL suits anonymous throwaway identities.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) Attempts(ctx context.Context, identity, puzzleID string) ([]domain.GuessAttempt, error) {
	raw, err := s.client.LRange(ctx, s.attemptsKey(identity, puzzleID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	attempts := make([]domain.GuessAttempt, 0, len(raw))
	for _, entry := range raw {
		var attempt domain.GuessAttempt
		if err := json.Unmarshal([]byte(entry), &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

// appendScript admits an attempt only when its ordinal is the next in the
// pair's list, so the check and the push are one atomic step on the server.
var appendScript = redis.NewScript(`
if redis.call('LLEN', KEYS[1]) + 1 ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('RPUSH', KEYS[1], ARGV[2])
redis.call('SADD', KEYS[2], ARGV[3])
local ttl = tonumber(ARGV[4])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
	redis.call('PEXPIRE', KEYS[2], ttl)
end
return 1
`)

func (s *AttemptStore) Append(ctx context.Context, identity, puzzleID string, attempt domain.GuessAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}

	keys := []string{s.attemptsKey(identity, puzzleID), s.attemptedKey(identity)}
	admitted, err := appendScript.Run(ctx, s.client, keys,
		attempt.Ordinal, data, puzzleID, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	if admitted == 0 {
		return domain.ErrAttemptConflict
	}
	return nil
}

func (s *AttemptStore) PuzzleIDs(ctx context.Context, identity string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.attemptedKey(identity)).Result()
	if err != nil {
		return nil, fmt.Errorf("load attempted set: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *AttemptStore) attemptsKey(identity, puzzleID string) string {
	return "attempts:" + identity + ":" + puzzleID
}

func (s *AttemptStore) attemptedKey(identity string) string {
	return "attempted:" + identity
}
