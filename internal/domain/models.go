package domain

import "time"

// Puzzle is one scheduled riddle. At most one puzzle exists per calendar
// day; the Solution never leaves the server.
type Puzzle struct {
	ID        string
	Content   string
	Solution  string
	Day       Day
	CreatedAt time.Time
}

// Public returns the client-safe view of the puzzle. The solution is
// excluded by construction, not by omission at serialization time.
func (p Puzzle) Public() PublicPuzzle {
	return PublicPuzzle{
		ID:        p.ID,
		Content:   p.Content,
		Day:       p.Day,
		CreatedAt: p.CreatedAt,
	}
}

// PublicPuzzle is what resolvers and listings hand to clients.
type PublicPuzzle struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Day       Day       `json:"day"`
	CreatedAt time.Time `json:"createdAt"`
}

// GuessAttempt is one submitted guess for an (identity, puzzle) pair.
// Attempts are append-only; ordinals are dense and 1-based.
type GuessAttempt struct {
	ID          string    `json:"id"`
	Ordinal     int       `json:"ordinal"`
	Text        string    `json:"text"`
	Correct     bool      `json:"correct"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// PuzzleScore is the derived standing of one (identity, puzzle) pair.
// Score is the attempt count; lower is better.
type PuzzleScore struct {
	PuzzleID string   `json:"puzzleId"`
	Score    int      `json:"score"`
	Solved   bool     `json:"solved"`
	Guesses  []string `json:"guesses,omitempty"`
}

// ScoreSummary is an identity's full standing, recomputed from attempts on
// every read so it cannot drift.
type ScoreSummary struct {
	Identity   string        `json:"identity"`
	GrandTotal int           `json:"grandTotal"`
	PerPuzzle  []PuzzleScore `json:"perPuzzle"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
