package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"course-catalog/internal/domain"
	"course-catalog/internal/logger"
	"course-catalog/internal/mappers"
	"course-catalog/internal/store"
)

// Loader persists assembled courses. Extraction never touches the store;
// the loader only sees finished domain.Course values.
type Loader struct {
	Store  store.Store
	Writer *BatchWriter
	Mode   Mode
	Log    *logger.Logger

	Now   func() time.Time
	NewID func() string
}

func NewLoader(st store.Store, mode Mode, w *BatchWriter, log *logger.Logger) *Loader {
	if w == nil {
		w = &BatchWriter{}
	}
	w.Store = st
	if w.Log == nil {
		w.Log = log
	}
	return &Loader{Store: st, Writer: w, Mode: mode, Log: log}
}

// Load plans ids, writes every item, then prunes what a replaced course no
// longer has. Write failures are counted in the summary, not returned.
func (l *Loader) Load(ctx context.Context, courses []domain.Course) (Summary, error) {
	log := logger.OrNop(l.Log)
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	newID := uuid.NewString
	if l.NewID != nil {
		newID = l.NewID
	}
	mode := l.Mode
	if mode == "" {
		mode = ModeInsert
	}

	start := time.Now()
	sum := Summary{Mode: mode, Persisted: true}
	CountCourses(&sum, courses)

	runAt := now()
	plans, err := PlanCourses(ctx, l.Store, courses, mode, runAt, newID)
	if err != nil {
		return sum, err
	}

	var items []mappers.Item
	perPlan := make([][]mappers.Item, len(plans))
	for i, p := range plans {
		perPlan[i] = mappers.MapCourse(p.Course, p.ID, p.CreatedAt, runAt)
		items = append(items, perPlan[i]...)
	}

	res := l.Writer.Write(ctx, items)
	failed := make(map[string]bool, len(res.Failed))
	for _, k := range res.Failed {
		failed[k] = true
	}
	for i, p := range plans {
		if !p.Replace {
			continue
		}
		sum.Replaced++
		l.pruneReplaced(ctx, log, mappers.PartitionKey(p.ID), perPlan[i], failed)
	}
	sum.Attempted = res.Attempted
	sum.Succeeded = res.Succeeded
	sum.Failed = res.Failed
	sum.Elapsed = time.Since(start)

	log.Info("load finished",
		"mode", string(mode),
		"courses", sum.Courses,
		"attempted", sum.Attempted,
		"succeeded", sum.Succeeded,
		"failed", sum.FailedCount(),
	)
	return sum, nil
}

// pruneReplaced drops stale items under pk once all of the course's new items
// are stored. A partial write leaves the partition as is.
func (l *Loader) pruneReplaced(ctx context.Context, log *logger.Logger, pk string, written []mappers.Item, failed map[string]bool) {
	keep := make([]string, 0, len(written))
	for _, it := range written {
		if failed[it.Key()] {
			log.Warn("keeping stale items after partial upsert", "pk", pk, "failed", it.Key())
			return
		}
		keep = append(keep, it.SortKey)
	}
	if err := l.Store.Prune(ctx, pk, keep); err != nil {
		log.Warn("could not prune replaced course", "pk", pk, "error", err)
	}
}

// CountCourses fills the extraction counts of s.
func CountCourses(s *Summary, courses []domain.Course) {
	s.Courses = len(courses)
	s.Modules, s.Labs = 0, 0
	for _, c := range courses {
		s.Modules += len(c.Modules)
		s.Labs += len(c.Labs)
	}
}
