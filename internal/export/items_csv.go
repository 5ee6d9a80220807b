package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"course-catalog/internal/mappers"
)

// Keep header order stable; spreadsheets downstream key on it.
var itemsHeader = []string{
	"PARTITION_KEY",
	"SORT_KEY",
	"TYPE",
	"ID",
	"COURSE_ID",
	"RELATED_MODULE_ID",
	"TITLE",
	"DESCRIPTION",
	"LEVEL",
	"DELIVERY_METHOD",
	"DURATION",
	"REGISTRATION_LINK",
	"OBJECTIVES",
	"AUDIENCE",
	"PREREQUISITES",
	"TOPICS",
	"ORDER",
	"DAY",
	"CREATED_AT",
	"UPDATED_AT",
}

// WriteItemsCSV writes store items one per row. List fields are joined
// with " | ".
func WriteItemsCSV(w io.Writer, items []mappers.Item) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(itemsHeader); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write(itemRow(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func itemRow(it mappers.Item) []string {
	return []string{
		it.PartitionKey,
		it.SortKey,
		string(it.Type),
		it.ID,
		it.CourseID,
		it.RelatedModuleID,
		oneLine(it.Title),
		oneLine(it.Description),
		it.Level,
		it.DeliveryMethod,
		it.Duration,
		it.RegistrationURL,
		joinList(it.Objectives),
		joinList(it.Audience),
		joinList(it.Prerequisites),
		joinList(it.Topics),
		intOrEmpty(it.Order),
		intOrEmpty(it.Day),
		it.CreatedAt,
		it.UpdatedAt,
	}
}

func joinList(in []string) string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = oneLine(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " | ")
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
