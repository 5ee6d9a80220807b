package snapshot

import (
	"context"
	"fmt"

	"course-catalog/internal/catalog"
	"course-catalog/internal/domain"
	"course-catalog/internal/export"
	"course-catalog/internal/logger"
	"course-catalog/internal/providers"
	"course-catalog/internal/source"
)

// Fetcher is satisfied by *source.Reader.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Provider lists courses from JSON in the Course shape: the debug snapshot
// of an earlier run, or the output of another extractor. Every course goes
// through Assembler.Finish so defaults and dedup hold as for parsed ones.
type Provider struct {
	Fetcher   Fetcher
	Location  string
	Assembler *catalog.Assembler
	Log       *logger.Logger
}

var _ providers.CourseProvider = (*Provider)(nil)

func (p *Provider) Name() string { return "snapshot:" + p.Location }

func (p *Provider) ListCourses(ctx context.Context) ([]domain.Course, error) {
	log := logger.OrNop(p.Log)
	raw, err := p.Fetcher.Fetch(ctx, p.Location)
	if err != nil {
		return nil, err
	}
	in, err := export.ReadSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", source.ErrUnavailable, p.Location, err)
	}

	out := make([]domain.Course, 0, len(in))
	for i, c := range in {
		fc, ok := p.Assembler.Finish(c)
		if !ok {
			log.Warn("snapshot: skipping course without a title", "source", p.Location, "index", i)
			continue
		}
		out = append(out, fc)
	}
	log.Info("snapshot courses loaded", "source", p.Location, "courses", len(out))
	return out, nil
}
