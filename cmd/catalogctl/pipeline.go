package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"course-catalog/internal/catalog"
	"course-catalog/internal/config"
	"course-catalog/internal/domain"
	"course-catalog/internal/export"
	"course-catalog/internal/logger"
	"course-catalog/internal/mappers"
	"course-catalog/internal/outline"
	"course-catalog/internal/parser"
	"course-catalog/internal/providers"
	"course-catalog/internal/providers/document"
	"course-catalog/internal/providers/snapshot"
	"course-catalog/internal/sftpclient"
	"course-catalog/internal/source"
	"course-catalog/internal/store"
	"course-catalog/internal/store/gormstore"
	"course-catalog/internal/store/redisstore"
	catalogsync "course-catalog/internal/sync"
)

// app is the state shared by extract and load.
type app struct {
	cfg config.Config
	log *logger.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if labFallback {
		cfg.LabFallback = true
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

// headers turns the configured section-name → phrases map into classifier
// entries, in a stable order.
func headers(m map[string][]string) ([]parser.Header, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []parser.Header
	for _, name := range names {
		sec, ok := parser.ParseSection(name)
		if !ok || sec == parser.SectionNone {
			return nil, fmt.Errorf("config: unknown section %q in headers", name)
		}
		for _, phrase := range m[name] {
			out = append(out, parser.Header{Phrase: phrase, Section: sec})
		}
	}
	return out, nil
}

func (a *app) assembler() *catalog.Assembler {
	return catalog.NewAssembler(catalog.Options{
		DefaultDelivery:     a.cfg.DefaultDelivery,
		DescriptionTemplate: a.cfg.DescriptionTemplate,
		Log:                 a.log,
	})
}

func (a *app) provider(reader *source.Reader, asm *catalog.Assembler, locations []string) (*document.Provider, error) {
	extra, err := headers(a.cfg.Headers)
	if err != nil {
		return nil, err
	}
	return &document.Provider{
		Reader: reader,
		Parser: parser.New(parser.Options{
			ExtraHeaders: extra,
			Outline:      outline.Options{LabFallback: a.cfg.LabFallback},
			Log:          a.log,
		}),
		Assembler: asm,
		Locations: locations,
		Workers:   a.cfg.Workers,
		Log:       a.log,
	}, nil
}

// extract parses the documents, merges courses from --courses files (first
// title wins, documents first) and writes the debug snapshot.
func (a *app) extract(ctx context.Context, locations []string) (document.Extraction, []byte, error) {
	if len(locations) == 0 && len(courseFiles) == 0 {
		return document.Extraction{}, nil, fmt.Errorf("%w: no input documents", source.ErrUnavailable)
	}
	reader := source.NewReader(a.cfg.SFTP())
	asm := a.assembler()

	var ex document.Extraction
	if len(locations) > 0 {
		p, err := a.provider(reader, asm, locations)
		if err != nil {
			return ex, nil, err
		}
		if ex, err = p.Extract(ctx); err != nil {
			return ex, nil, err
		}
	}

	if len(courseFiles) > 0 {
		ps := []providers.CourseProvider{providers.Static{Label: "document", Courses: ex.Courses}}
		for _, loc := range courseFiles {
			ps = append(ps, &snapshot.Provider{Fetcher: reader, Location: loc, Assembler: asm, Log: a.log})
		}
		merged, err := providers.Collect(ctx, ps...)
		if err != nil {
			return ex, nil, err
		}
		ex.Courses = merged
	}

	sources := append(append([]string{}, locations...), courseFiles...)
	snap, err := export.WriteSnapshot(a.cfg.SnapshotPath, ex.Courses, sources, time.Now())
	if err != nil {
		return ex, nil, err
	}
	a.log.Info("snapshot written", "path", a.cfg.SnapshotPath, "courses", len(ex.Courses))
	return ex, snap, nil
}

func (a *app) uploadSnapshot(ctx context.Context, snap []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	name := fmt.Sprintf("extracted_courses_%s.json", time.Now().UTC().Format("20060102T150405Z"))
	if err := sftpclient.Upload(ctx, a.cfg.SFTP(), name, snap); err != nil {
		return err
	}
	a.log.Info("snapshot uploaded", "host", a.cfg.SFTPHost, "dir", a.cfg.SFTPDir, "name", name)
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreSQLite, config.StorePostgres:
		return gormstore.Open(cfg.Store, cfg.DSN, log)
	case config.StoreRedis:
		return redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisPrefix, log)
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// previewItems maps courses with fresh ids, without touching a store.
func previewItems(courses []domain.Course, now time.Time) []mappers.Item {
	var items []mappers.Item
	for _, c := range courses {
		items = append(items, mappers.MapCourse(c, uuid.NewString(), now, now)...)
	}
	return items
}

func extractionSummary(ex document.Extraction) catalogsync.Summary {
	s := catalogsync.Summary{
		Documents:     ex.Documents,
		Dropped:       ex.Dropped,
		IgnoredTables: ex.IgnoredTables,
		Fallbacks:     ex.Fallbacks,
	}
	catalogsync.CountCourses(&s, ex.Courses)
	return s
}
