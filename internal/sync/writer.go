package sync

import (
	"context"
	"errors"
	"time"

	"course-catalog/internal/backoff"
	"course-catalog/internal/logger"
	"course-catalog/internal/mappers"
	"course-catalog/internal/store"
)

// BatchWriter writes items in batches of at most store.MaxBatch and retries
// only the unprocessed part of each batch.
type BatchWriter struct {
	Store      store.Store
	BatchSize  int
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Log        *logger.Logger
}

// WriteResult counts one Write call.
type WriteResult struct {
	Attempted int
	Succeeded int
	// Failed lists "<pk>|<sk>" of items still unwritten after the last retry.
	Failed []string
}

func (w *BatchWriter) batchSize() int {
	if w.BatchSize <= 0 || w.BatchSize > store.MaxBatch {
		return store.MaxBatch
	}
	return w.BatchSize
}

func (w *BatchWriter) Write(ctx context.Context, items []mappers.Item) WriteResult {
	log := logger.OrNop(w.Log)
	res := WriteResult{Attempted: len(items)}
	size := w.batchSize()

	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		left, lastErr := w.writeBatch(ctx, items[start:end], log)
		res.Succeeded += (end - start) - len(left)
		for _, it := range left {
			res.Failed = append(res.Failed, it.Key())
			log.Error("item write failed", "pk", it.PartitionKey, "sk", it.SortKey, "error", lastErr)
		}
	}
	return res
}

// writeBatch returns the items still unprocessed and the last error seen.
func (w *BatchWriter) writeBatch(ctx context.Context, batch []mappers.Item, log *logger.Logger) ([]mappers.Item, error) {
	pending := batch
	var lastErr error
	for attempt := 0; len(pending) > 0; attempt++ {
		if attempt > 0 {
			if attempt > w.MaxRetries {
				break
			}
			if err := backoff.Sleep(ctx, attempt, w.BaseDelay, w.MaxDelay, 0); err != nil {
				return pending, err
			}
			log.Debug("retrying unprocessed items", "attempt", attempt, "items", len(pending))
		}

		unprocessed, err := w.Store.BatchPut(ctx, pending)
		if err != nil {
			lastErr = err
			log.Warn("batch write failed", "items", len(pending), "attempt", attempt, "error", err)
			continue
		}
		if len(unprocessed) > 0 {
			lastErr = errUnprocessed
		}
		pending = unprocessed
	}
	return pending, lastErr
}

var errUnprocessed = errors.New("sync: left unprocessed by store after retries")
