package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-riddle-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// uniqueViolation is the SQLSTATE Postgres raises for a unique constraint.
const uniqueViolation = "23505"

// PuzzleStore persists puzzles in Postgres. The UNIQUE constraint on
// puzzle_date is the authoritative one-puzzle-per-day guarantee; its
// violation is translated into domain.ErrDayTaken so callers see the same
// conflict whether the advisory check or the database caught it.
type PuzzleStore struct {
	pool *pgxpool.Pool
}

func NewPuzzleStore(pool *pgxpool.Pool) *PuzzleStore {
	return &PuzzleStore{pool: pool}
}

func (s *PuzzleStore) Create(ctx context.Context, puzzle domain.Puzzle) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO puzzles (id, content, solution, puzzle_date, created_at) VALUES ($1, $2, $3, $4, $5)`,
		puzzle.ID, puzzle.Content, puzzle.Solution, puzzle.Day.UTC(), puzzle.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDayTaken
		}
		return fmt.Errorf("insert puzzle: %w", err)
	}
	return nil
}

func (s *PuzzleStore) FindByID(ctx context.Context, id string) (domain.Puzzle, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, content, solution, puzzle_date, created_at FROM puzzles WHERE id=$1`, id)
	puzzle, err := scanPuzzle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Puzzle{}, domain.ErrPuzzleNotFound
		}
		return domain.Puzzle{}, fmt.Errorf("find puzzle: %w", err)
	}
	return puzzle, nil
}

func (s *PuzzleStore) List(ctx context.Context) ([]domain.Puzzle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, content, solution, puzzle_date, created_at FROM puzzles ORDER BY puzzle_date ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	defer rows.Close()

	var puzzles []domain.Puzzle
	for rows.Next() {
		puzzle, err := scanPuzzle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan puzzle: %w", err)
		}
		puzzles = append(puzzles, puzzle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}
	return puzzles, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPuzzle(row rowScanner) (domain.Puzzle, error) {
	var (
		puzzle domain.Puzzle
		date   time.Time
	)
	if err := row.Scan(&puzzle.ID, &puzzle.Content, &puzzle.Solution, &date, &puzzle.CreatedAt); err != nil {
		return domain.Puzzle{}, err
	}
	// DATE columns come back as midnight UTC; the triple is what we store.
	puzzle.Day = domain.DayOf(date, time.UTC)
	return puzzle, nil
}
