package postgres

import (
	"context"
	"errors"
	"fmt"

	"daily-riddle-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore persists guess attempts for authenticated identities. The
// (identity, puzzle_id, ordinal) primary key rejects a lost race on the
// ordinal, keeping the ledger's dense-ordinal invariant intact under
// concurrent submissions for the same pair.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Attempts(ctx context.Context, identity, puzzleID string) ([]domain.GuessAttempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, ordinal, guess_text, is_correct, submitted_at
		 FROM attempts WHERE identity=$1 AND puzzle_id=$2 ORDER BY ordinal ASC`,
		identity, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.GuessAttempt
	for rows.Next() {
		var a domain.GuessAttempt
		if err := rows.Scan(&a.ID, &a.Ordinal, &a.Text, &a.Correct, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	return attempts, nil
}

func (s *AttemptStore) Append(ctx context.Context, identity, puzzleID string, attempt domain.GuessAttempt) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO attempts (id, identity, puzzle_id, ordinal, guess_text, is_correct, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.ID, identity, puzzleID, attempt.Ordinal, attempt.Text, attempt.Correct, attempt.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAttemptConflict
		}
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) PuzzleIDs(ctx context.Context, identity string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT puzzle_id FROM attempts WHERE identity=$1 ORDER BY puzzle_id`, identity)
	if err != nil {
		return nil, fmt.Errorf("load attempted puzzles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan puzzle id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load attempted puzzles: %w", err)
	}
	return ids, nil
}
