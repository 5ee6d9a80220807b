package sync

import "time"

// Summary is the end-of-run report.
type Summary struct {
	Documents int
	Courses   int
	Modules   int
	Labs      int

	// Dropped counts paragraphs no section or outline rule accepted.
	Dropped       int
	IgnoredTables int
	Fallbacks     int

	Mode      Mode
	Persisted bool
	Replaced  int
	Attempted int
	Succeeded int
	Failed    []string
	Elapsed   time.Duration
}

func (s Summary) FailedCount() int { return len(s.Failed) }
