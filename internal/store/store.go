package store

import (
	"context"
	"errors"

	"course-catalog/internal/mappers"
)

// MaxBatch is the batch-write limit every backend honors.
const MaxBatch = 25

var ErrBatchTooLarge = errors.New("store: batch exceeds 25 items")

// Store is a hierarchical key-value store addressed by (partitionKey, sortKey).
type Store interface {
	// BatchPut writes up to MaxBatch items. Items the backend could not
	// write come back as unprocessed; err is reserved for failures of the
	// whole call.
	BatchPut(ctx context.Context, items []mappers.Item) (unprocessed []mappers.Item, err error)
	// FindCourse returns the course item with this exact title, if any.
	FindCourse(ctx context.Context, title string) (mappers.Item, bool, error)
	// Prune removes the items under pk whose sort key is not in keep. A nil
	// keep clears the partition.
	Prune(ctx context.Context, pk string, keep []string) error
	Close() error
}

func CheckBatch(items []mappers.Item) error {
	if len(items) > MaxBatch {
		return ErrBatchTooLarge
	}
	return nil
}

// KeepSet indexes sort keys for Prune implementations.
func KeepSet(keep []string) map[string]bool {
	set := make(map[string]bool, len(keep))
	for _, sk := range keep {
		set[sk] = true
	}
	return set
}
