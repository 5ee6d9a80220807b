package parser

import (
	"fmt"
	"strconv"
	"strings"

	"course-catalog/internal/outline"
)

// metaValue is one cell of a metadata table.
type metaValue struct {
	section Section
	value   string
}

// metadataTable returns the values of a grid whose header row names at
// least two of level, delivery method and duration.
func (p *Parser) metadataTable(rows [][]string) ([]metaValue, bool) {
	if len(rows) < 2 {
		return nil, false
	}
	var cols []Section
	hits := 0
	for _, cell := range rows[0] {
		sec := p.classifier.Classify(cell)
		switch sec {
		case SectionLevel, SectionDelivery, SectionDuration:
			hits++
		default:
			sec = SectionNone
		}
		cols = append(cols, sec)
	}
	if hits < 2 {
		return nil, false
	}

	var out []metaValue
	for i, cell := range rows[1] {
		if i >= len(cols) || cols[i] == SectionNone {
			continue
		}
		if v := firstLine(cell); v != "" {
			out = append(out, metaValue{section: cols[i], value: v})
		}
	}
	return out, true
}

func applyMeta(d *Draft, vals []metaValue) {
	for _, v := range vals {
		switch v.section {
		case SectionLevel:
			setIf(&d.Level, v.value)
		case SectionDelivery:
			setIf(&d.DeliveryMethod, v.value)
		case SectionDuration:
			setIf(&d.Duration, v.value)
		}
	}
}

type outlineColumn int

const (
	columnNone outlineColumn = iota
	columnModule
	columnDayKo
	columnDayEn
)

var outlineHeaders = map[string]outlineColumn{
	"모듈":     columnModule,
	"module": columnModule,
	"일차":     columnDayKo,
	"day":    columnDayEn,
}

// outlineTable turns an outline grid into recognizer input: the first cell
// of each data row becomes a marker line, every other non-empty cell line a
// topic bullet.
func outlineTable(rows [][]string) ([]string, bool) {
	if len(rows) < 2 || len(rows[0]) == 0 {
		return nil, false
	}
	col := outlineHeaders[headerKey(rows[0][0])]
	if col == columnNone {
		return nil, false
	}

	var lines []string
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		head := strings.Split(row[0], "\n")
		marker := rowMarker(col, rows[0][0], i+1, strings.TrimSpace(head[0]))
		if marker == "" {
			continue
		}
		lines = append(lines, marker)
		for _, l := range head[1:] {
			lines = appendBullet(lines, l)
		}
		for _, cell := range row[1:] {
			for _, l := range strings.Split(cell, "\n") {
				lines = appendBullet(lines, l)
			}
		}
	}
	return lines, true
}

func rowMarker(col outlineColumn, header string, n int, cell string) string {
	if cell == "" {
		return ""
	}
	if outline.IsMarker(cell) {
		return cell
	}
	if num, err := strconv.Atoi(cell); err == nil {
		n, cell = num, ""
	}
	var m string
	switch col {
	case columnModule:
		m = fmt.Sprintf("%s %d", strings.TrimSpace(header), n)
	case columnDayKo:
		m = fmt.Sprintf("%d일 차", n)
	case columnDayEn:
		m = fmt.Sprintf("Day %d", n)
	}
	if cell != "" {
		m += ": " + cell
	}
	return m
}

func appendBullet(lines []string, l string) []string {
	l = strings.TrimSpace(l)
	if l == "" {
		return lines
	}
	if outline.IsBullet(l) {
		return append(lines, l)
	}
	return append(lines, "· "+l)
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
