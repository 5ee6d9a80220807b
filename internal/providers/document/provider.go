package document

import (
	"context"
	"errors"
	"fmt"

	"course-catalog/internal/catalog"
	"course-catalog/internal/concurrency"
	"course-catalog/internal/domain"
	"course-catalog/internal/logger"
	"course-catalog/internal/parser"
	"course-catalog/internal/providers"
	"course-catalog/internal/source"
)

// Reader is satisfied by *source.Reader.
type Reader interface {
	Read(ctx context.Context, location string) (source.Document, error)
}

// Provider extracts courses from documents with the rule-based pipeline.
type Provider struct {
	Reader    Reader
	Parser    *parser.Parser
	Assembler *catalog.Assembler
	Locations []string
	Workers   int
	Log       *logger.Logger
}

var _ providers.CourseProvider = (*Provider)(nil)

func (p *Provider) Name() string { return "document" }

func (p *Provider) ListCourses(ctx context.Context) ([]domain.Course, error) {
	ex, err := p.Extract(ctx)
	if err != nil {
		return nil, err
	}
	return ex.Courses, nil
}

// Extraction is the outcome of one run over all locations.
type Extraction struct {
	Courses   []domain.Course
	Documents int
	Drafts    int
	Dropped   int

	// IgnoredTables counts grids that were neither metadata nor outline.
	IgnoredTables int
	// Fallbacks counts outline markers given a sequential ordinal.
	Fallbacks int
}

// Extract reads and parses documents concurrently, one sequential pass per
// document, then assembles drafts in location order. Any unreadable
// document fails the whole run.
func (p *Provider) Extract(ctx context.Context) (Extraction, error) {
	log := logger.OrNop(p.Log)
	if len(p.Locations) == 0 {
		return Extraction{}, fmt.Errorf("%w: no input documents", source.ErrUnavailable)
	}

	results, errs := concurrency.ProcessParallel(ctx, p.Locations, concurrency.ParallelOptions{MaxWorkers: p.Workers},
		func(ctx context.Context, _ int, loc string) (parser.Result, error) {
			doc, err := p.Reader.Read(ctx, loc)
			if err != nil {
				return parser.Result{}, err
			}
			res := p.Parser.Parse(doc)
			log.Debug("document parsed", "source", loc, "blocks", len(doc.Blocks), "drafts", len(res.Drafts), "dropped", res.Dropped)
			return res, nil
		})
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if !errors.Is(err, source.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", source.ErrUnavailable, err)
		}
		return Extraction{}, err
	}

	ex := Extraction{Documents: len(p.Locations)}
	var drafts []parser.Draft
	for _, r := range results {
		drafts = append(drafts, r.Drafts...)
		ex.Dropped += r.Dropped
		ex.IgnoredTables += r.IgnoredTables
		for _, d := range r.Drafts {
			ex.Dropped += d.Outline.Dropped
			ex.Fallbacks += d.Outline.Fallbacks
		}
	}
	ex.Drafts = len(drafts)
	ex.Courses = p.Assembler.AssembleAll(drafts)

	log.Info("extraction finished", "documents", ex.Documents, "courses", len(ex.Courses), "dropped", ex.Dropped, "ignored_tables", ex.IgnoredTables, "fallbacks", ex.Fallbacks)
	return ex, nil
}
