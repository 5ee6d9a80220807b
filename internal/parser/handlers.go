package parser

import (
	"regexp"
	"strings"

	"course-catalog/internal/outline"
)

// Draft is one course block as the handlers saw it, before normalization
// and defaults.
type Draft struct {
	Source           string
	Title            string
	Description      string
	Level            string
	DeliveryMethod   string
	Duration         string
	Objectives       []string
	Audience         []string
	Prerequisites    []string
	RegistrationLink string
	Outline          outline.Result
}

var urlRe = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s<>"'()\[\]]+`)

// FindURL returns the first URL-like substring of s.
func FindURL(s string) string {
	u := urlRe.FindString(s)
	return strings.TrimRight(u, ".,;:!?")
}

// apply folds one flushed buffer into d. Single-value fields follow
// last-non-empty-wins when a section recurs inside one course.
func apply(d *Draft, sec Section, buf []string, rec *outline.Recognizer) {
	switch sec {
	case SectionTitle:
		setIf(&d.Title, firstNonEmpty(buf))
	case SectionDescription:
		setIf(&d.Description, joinNonEmpty(buf))
	case SectionLevel:
		setIf(&d.Level, firstNonEmpty(buf))
	case SectionDelivery:
		setIf(&d.DeliveryMethod, firstNonEmpty(buf))
	case SectionDuration:
		setIf(&d.Duration, firstNonEmpty(buf))
	case SectionObjectives:
		d.Objectives = append(d.Objectives, bullets(buf)...)
	case SectionAudience:
		d.Audience = append(d.Audience, bullets(buf)...)
	case SectionPrerequisites:
		d.Prerequisites = append(d.Prerequisites, bullets(buf)...)
	case SectionRegistration:
		for _, p := range buf {
			if u := FindURL(p); u != "" {
				d.RegistrationLink = u
				break
			}
		}
	case SectionOutline:
		rec.Recognize(buf, &d.Outline)
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func firstNonEmpty(buf []string) string {
	for _, p := range buf {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

func joinNonEmpty(buf []string) string {
	parts := make([]string, 0, len(buf))
	for _, p := range buf {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// bullets keeps only bullet paragraphs, marker stripped.
func bullets(buf []string) []string {
	var out []string
	for _, p := range buf {
		if !outline.IsBullet(p) {
			continue
		}
		if v := outline.StripBullet(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
