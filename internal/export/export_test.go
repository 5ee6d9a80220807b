package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"course-catalog/internal/domain"
	"course-catalog/internal/mappers"
)

func TestWriteSnapshot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "extracted_courses_debug.json")
	courses := []domain.Course{{Title: "Example Course", Level: "beginner", Modules: []domain.Module{{Title: "모듈 1: 소개", Order: 1}}}}
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	written, err := WriteSnapshot(out, courses, []string{"catalog.txt"}, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	onDisk, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, onDisk) {
		t.Error("Expected returned bytes to match the file")
	}

	var snap Snapshot
	if err := json.Unmarshal(onDisk, &snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snap.GeneratedAt != "2025-05-01T12:00:00Z" || len(snap.Courses) != 1 || snap.Courses[0].Modules[0].Title != "모듈 1: 소개" {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
}

func TestMarshalSnapshotEmpty(t *testing.T) {
	b, err := MarshalSnapshot(nil, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"courses": []`)) {
		t.Errorf("Expected empty course list, got %s", b)
	}
}

func TestReadSnapshot(t *testing.T) {
	b, err := MarshalSnapshot([]domain.Course{{Title: "A"}, {Title: "B"}}, []string{"x.txt"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	testCases := []struct {
		name     string
		input    []byte
		expected int
		wantErr  bool
	}{
		{"snapshot", b, 2, false},
		{"bare array", []byte(` [{"title":"A"}]`), 1, false},
		{"invalid", []byte(`{"courses": 3}`), 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadSnapshot(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ReadSnapshot error = %v, wantErr %v", err, tc.wantErr)
			}
			if len(got) != tc.expected {
				t.Errorf("Expected %d courses, got %d", tc.expected, len(got))
			}
		})
	}
}

func TestWriteItemsCSV(t *testing.T) {
	items := mappers.MapCourse(domain.Course{
		Title:       "Example Course",
		Description: "line one\nline two",
		Objectives:  []string{"a", " ", "b"},
		Modules:     []domain.Module{{Title: "모듈 1: 소개", Order: 1, Topics: []string{"토픽 A", "토픽 B"}}},
	}, "c1", time.Unix(0, 0), time.Unix(0, 0))

	var buf bytes.Buffer
	if err := WriteItemsCSV(&buf, items); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || len(rows[0]) != len(itemsHeader) {
		t.Fatalf("Unexpected CSV shape: %d rows", len(rows))
	}
	if rows[1][7] != "line one line two" || rows[1][12] != "a | b" {
		t.Errorf("Unexpected course row %v", rows[1])
	}
	if rows[2][1] != "MODULE#0001" || rows[2][15] != "토픽 A | 토픽 B" || rows[2][16] != "1" {
		t.Errorf("Unexpected module row %v", rows[2])
	}
}
