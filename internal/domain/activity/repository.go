package activity

import (
	"context"
	"errors"
)

var ErrActivityNotFound = errors.New("activity not found")

// Store reads activity facts. Implementations are read-only from the grading engine's view.
type Store interface {
	// ActivityIDs returns the distinct post or user ids of the facts matching q,
	// most recently active first.
	ActivityIDs(ctx context.Context, q Query, field IDField) ([]int64, error)
	// Activity returns the most recent fact matching q, or ErrActivityNotFound.
	Activity(ctx context.Context, q Query) (*Record, error)
}
