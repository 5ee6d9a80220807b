package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"course-catalog/internal/domain"
)

// Snapshot is the debug dump of assembled courses written before any
// persistence happens.
type Snapshot struct {
	GeneratedAt string          `json:"generatedAt"`
	Sources     []string        `json:"sources"`
	Courses     []domain.Course `json:"courses"`
}

func MarshalSnapshot(courses []domain.Course, sources []string, now time.Time) ([]byte, error) {
	if courses == nil {
		courses = []domain.Course{}
	}
	b, err := json.MarshalIndent(Snapshot{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Sources:     sources,
		Courses:     courses,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteSnapshot writes the snapshot to outPath and returns the bytes written.
func WriteSnapshot(outPath string, courses []domain.Course, sources []string, now time.Time) ([]byte, error) {
	b, err := MarshalSnapshot(courses, sources, now)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return nil, fmt.Errorf("export: write snapshot: %w", err)
	}
	return b, nil
}

// ReadSnapshot accepts a snapshot object or a bare JSON array of courses.
func ReadSnapshot(data []byte) ([]domain.Course, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var courses []domain.Course
		if err := json.Unmarshal(trimmed, &courses); err != nil {
			return nil, fmt.Errorf("export: read courses: %w", err)
		}
		return courses, nil
	}
	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("export: read snapshot: %w", err)
	}
	return s.Courses, nil
}
