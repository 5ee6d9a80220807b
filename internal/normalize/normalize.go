package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"course-catalog/internal/domain"
)

// Canonical level values.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Canonical duration tokens (besides "<N> hours").
const (
	DurationHalfDay = "half day"
	DurationOneDay  = "1 day"
)

type levelBucket struct {
	level    string
	keywords []string
}

// Checked in order. "상급" must not be shadowed by anything earlier.
var levelBuckets = []levelBucket{
	{LevelBeginner, []string{"초급", "기초", "기본", "입문", "beginner", "fundamental", "foundational", "introductory"}},
	{LevelIntermediate, []string{"중급", "intermediate"}},
	{LevelAdvanced, []string{"고급", "advanced"}},
	{LevelExpert, []string{"상급", "전문가", "expert"}},
}

// AWS-style numeric levels ("L200", "레벨 300").
var levelNumberRe = regexp.MustCompile(`(?:^|[^0-9])([1-4])00(?:[^0-9]|$)`)

// Level maps free text onto the canonical level enum. Unknown text passes
// through lowercased; empty input yields domain.Unspecified.
func Level(raw string) string {
	s := norm(raw)
	if s == "" || s == domain.Unspecified {
		return domain.Unspecified
	}
	for _, b := range levelBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(s, kw) {
				return b.level
			}
		}
	}
	if m := levelNumberRe.FindStringSubmatch(s); m != nil {
		return levelBuckets[m[1][0]-'1'].level
	}
	return s
}

var (
	halfDayRe = regexp.MustCompile(`(?:^|[^0-9.])0\.5\s*(?:일|days?)|반\s*일|half[\s-]*day`)
	daysRe    = regexp.MustCompile(`(?:^|[^0-9.])([0-9]+)\s*(?:일|days?\b)`)
	hoursRe   = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(?:시간|hours?\b|hrs?\b)`)
)

// Duration maps free text onto "half day", "1 day" .. "4 days" or
// "<N> hours". A day count outside 1..4 defers to an hour count in the
// same text; anything else passes through lowercased. Empty input yields
// domain.Unspecified.
func Duration(raw string) string {
	s := norm(raw)
	if s == "" || s == domain.Unspecified {
		return domain.Unspecified
	}
	if halfDayRe.MatchString(s) {
		return DurationHalfDay
	}
	if m := daysRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 4 {
			if n == 1 {
				return DurationOneDay
			}
			return strconv.Itoa(n) + " days"
		}
	}
	if m := hoursRe.FindStringSubmatch(s); m != nil {
		return m[1] + " hours"
	}
	return s
}

func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
