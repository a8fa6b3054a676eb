package highscore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSubject is returned when a subject normalizes to an empty key.
	ErrInvalidSubject = errors.New("subject has no usable characters")

	// ErrNegativeScore is returned when recording a score below zero.
	ErrNegativeScore = errors.New("score must not be negative")
)

// Record is the persisted bookkeeping for one subject.
type Record struct {
	Key       string
	HighScore int
	Attempts  int
	UpdatedAt time.Time
}

// Backend is durable storage for records, addressed by normalized key.
type Backend interface {
	// Load returns the record for key. ok is false if none exists.
	Load(ctx context.Context, key string) (rec Record, ok bool, err error)

	// Update atomically applies fn to the current record for key (the zero
	// Record with Key set if none exists) and stores the returned record.
	// No other Update for the same key may interleave.
	Update(ctx context.Context, key string, fn func(Record) Record) (Record, error)

	// List returns all records ordered by key.
	List(ctx context.Context) ([]Record, error)

	// Clear deletes every record.
	Clear(ctx context.Context) error
}

// StorageError wraps a Backend failure. The quiz result that triggered the
// write is unaffected; callers may retry.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("high score %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("high score %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
