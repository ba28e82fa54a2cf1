package domain

import "errors"

var (
	// ErrMalformedDate is returned when a day string is not valid YYYY-MM-DD.
	ErrMalformedDate = errors.New("malformed date")
	// ErrDayTaken is returned when a puzzle is already scheduled for a day.
	ErrDayTaken = errors.New("a puzzle is already scheduled for this day")
	// ErrPuzzleNotFound covers both an unknown puzzle id and "no puzzle
	// today"; absence is an expected state, not a fault.
	ErrPuzzleNotFound = errors.New("puzzle not found")
	// ErrAlreadySolved is returned when a guess arrives after the pair was solved.
	ErrAlreadySolved = errors.New("puzzle already solved")
	// ErrAttemptConflict is returned when a concurrent submission claimed the
	// same ordinal for a pair; the losing write is rejected and safe to retry.
	ErrAttemptConflict = errors.New("conflicting guess submission")
)
