package providers

import (
	"context"

	"course-catalog/internal/domain"
)

// CourseProvider produces assembled courses. The rule-based document
// pipeline is one implementation; other producers return the same shape.
type CourseProvider interface {
	Name() string
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// Static serves a fixed course list, typically one already extracted.
type Static struct {
	Label   string
	Courses []domain.Course
}

func (s Static) Name() string { return s.Label }

func (s Static) ListCourses(context.Context) ([]domain.Course, error) { return s.Courses, nil }

// Collect lists courses from every provider in order and drops titles
// already returned by an earlier provider.
func Collect(ctx context.Context, ps ...CourseProvider) ([]domain.Course, error) {
	seen := map[string]bool{}
	var out []domain.Course
	for _, p := range ps {
		courses, err := p.ListCourses(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			if seen[c.Title] {
				continue
			}
			seen[c.Title] = true
			out = append(out, c)
		}
	}
	return out, nil
}
