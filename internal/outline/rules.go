package outline

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	KindDay Kind = iota
	KindModule
	KindLab
	KindTopic
	KindLabNote
)

func (k Kind) String() string {
	switch k {
	case KindDay:
		return "day"
	case KindModule:
		return "module"
	case KindLab:
		return "lab"
	case KindTopic:
		return "topic"
	case KindLabNote:
		return "lab-note"
	}
	return "unknown"
}

// Match is what a rule extracted from one outline paragraph.
type Match struct {
	Kind Kind
	// Ordinal is 0 when the marker carried no number or a non-numeric one;
	// the recognizer then assigns the next sequential ordinal.
	Ordinal int
	Title   string
	Text    string
}

// Rule is one outline convention. Rules are evaluated in slice order and
// the first one that both matches and applies wins.
type Rule struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
	Extract func(line string, groups []string) Match
}

const sep = `(?:\s*[:.\-–)]\s*|\s+|$)`

var (
	dayMarkerRe   = regexp.MustCompile(`^(?:([0-9]+)\s*일\s*차|(?i:day)\s*([0-9]+))(?:\s*[:.\-–)]?\s*(.*))?$`)
	moduleNumRe   = regexp.MustCompile(`^(?:모듈|(?i:module))\s*([0-9]+)` + sep + `(.*)$`)
	moduleLooseRe = regexp.MustCompile(`^(?:모듈|(?i:module))(?:\s+([^\s:]+))?\s*:\s*(.+)$`)
	labNumRe      = regexp.MustCompile(`^(?:실습|(?i:lab))\s*([0-9]+)` + sep + `(.*)$`)
	labLooseRe    = regexp.MustCompile(`^(?:실습|(?i:lab))(?:\s+([^\s:]+))?\s*:\s*(.+)$`)
	bulletRe      = regexp.MustCompile(`^[·•\-]\s*(.+)$`)
	anyTextRe     = regexp.MustCompile(`\S`)
)

// DefaultRules covers numbered modules ("모듈 1: 소개", "Module 2 - Storage"),
// markers with a malformed ordinal ("모듈 X: 소개"), day grouping
// ("1일 차", "Day 2"), numbered and unnumbered labs, and topic bullets.
var DefaultRules = []Rule{
	{Name: "day-marker", Kind: KindDay, Pattern: dayMarkerRe, Extract: extractDay},
	{Name: "module-numbered", Kind: KindModule, Pattern: moduleNumRe, Extract: extractMarker(KindModule)},
	{Name: "module-loose", Kind: KindModule, Pattern: moduleLooseRe, Extract: extractMarker(KindModule)},
	{Name: "lab-numbered", Kind: KindLab, Pattern: labNumRe, Extract: extractMarker(KindLab)},
	{Name: "lab-loose", Kind: KindLab, Pattern: labLooseRe, Extract: extractMarker(KindLab)},
	{Name: "topic-bullet", Kind: KindTopic, Pattern: bulletRe, Extract: extractBullet},
}

// LabDescriptionRule routes otherwise unmatched outline text into the most
// recent lab's description. It is not part of DefaultRules; callers opt in.
var LabDescriptionRule = Rule{
	Name:    "lab-description-fallback",
	Kind:    KindLabNote,
	Pattern: anyTextRe,
	Extract: func(line string, _ []string) Match {
		return Match{Kind: KindLabNote, Text: line}
	},
}

func extractDay(line string, g []string) Match {
	n := g[1]
	if n == "" {
		n = g[2]
	}
	ord, _ := strconv.Atoi(n)
	return Match{Kind: KindDay, Ordinal: ord, Title: "Day " + strconv.Itoa(ord), Text: line}
}

func extractMarker(kind Kind) func(string, []string) Match {
	return func(line string, g []string) Match {
		ord, err := strconv.Atoi(strings.TrimSpace(g[1]))
		if err != nil || ord < 0 {
			ord = 0
		}
		return Match{Kind: kind, Ordinal: ord, Title: line, Text: strings.TrimSpace(g[2])}
	}
}

func extractBullet(_ string, g []string) Match {
	return Match{Kind: KindTopic, Text: strings.TrimSpace(g[1])}
}

// IsBullet reports whether a paragraph starts with one of the bullet markers.
func IsBullet(s string) bool {
	return bulletRe.MatchString(strings.TrimSpace(s))
}

// StripBullet removes the leading bullet marker, if any.
func StripBullet(s string) string {
	s = strings.TrimSpace(s)
	if m := bulletRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// IsMarker reports whether a line is a day, module or lab marker under the
// default conventions.
func IsMarker(line string) bool {
	line = collapse(line)
	for _, rule := range DefaultRules {
		if rule.Kind == KindTopic {
			continue
		}
		if rule.Pattern.MatchString(line) {
			return true
		}
	}
	return false
}
