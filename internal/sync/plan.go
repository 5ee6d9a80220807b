package sync

import (
	"context"
	"fmt"
	"time"

	"course-catalog/internal/domain"
	"course-catalog/internal/store"
)

// Plan is how one course will be written.
type Plan struct {
	Course    domain.Course
	ID        string
	CreatedAt time.Time
	// Replace is set when an existing partition must be cleared first.
	Replace bool
}

// PlanCourses assigns surrogate ids. In upsert mode a stored course with
// the same title keeps its id and creation time.
func PlanCourses(ctx context.Context, st store.Store, courses []domain.Course, mode Mode, now time.Time, newID func() string) ([]Plan, error) {
	plans := make([]Plan, 0, len(courses))
	for _, c := range courses {
		p := Plan{Course: c, ID: newID(), CreatedAt: now}
		if mode == ModeUpsert {
			existing, ok, err := st.FindCourse(ctx, c.Title)
			if err != nil {
				return nil, fmt.Errorf("sync: lookup %q: %w", c.Title, err)
			}
			if ok {
				p.ID = existing.ID
				p.Replace = true
				if t, err := time.Parse(time.RFC3339, existing.CreatedAt); err == nil {
					p.CreatedAt = t
				}
			}
		}
		plans = append(plans, p)
	}
	return plans, nil
}
