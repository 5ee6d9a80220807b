package sync

import (
	"fmt"
	"strings"
)

// Mode decides what a rerun against the same document does.
type Mode string

const (
	// ModeInsert mints a fresh surrogate id for every course on every run.
	ModeInsert Mode = "insert"
	// ModeUpsert reuses the id and createdAt of a stored course with the
	// same title and replaces its partition.
	ModeUpsert Mode = "upsert"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeInsert:
		return ModeInsert, nil
	case ModeUpsert:
		return ModeUpsert, nil
	}
	return "", fmt.Errorf("sync: unknown write mode %q (want insert or upsert)", s)
}
