package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyGrid is returned by operations that need at least one live cell.
	ErrEmptyGrid = errors.New("grid has no live cells")

	// ErrWorkerFailure is matched by every error produced when a band fails
	// during Advance.
	ErrWorkerFailure = errors.New("worker failure")

	// ErrMalformedInput is returned when a grid cannot be built from its input.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsortedRow is reported by a RowScanner that finds a row whose
	// columns are not strictly ascending.
	ErrUnsortedRow = errors.New("row columns are not strictly ascending")

	// ErrOutOfRange is reported when a generation would place a live cell
	// outside [MinCoord, MaxCoord].
	ErrOutOfRange = errors.New("live cell outside the coordinate range")
)

// WorkerError describes a band whose computation terminated abnormally.
type WorkerError struct {
	Band  Band
	Cause error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("band [%d, %d]: %v", e.Band.Lo, e.Band.Hi, e.Cause)
}

func (e *WorkerError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrWorkerFailure) match any WorkerError.
func (e *WorkerError) Is(target error) bool { return target == ErrWorkerFailure }
