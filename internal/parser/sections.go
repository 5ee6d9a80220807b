package parser

import "strings"

// Section is the tag a header paragraph switches the extractor to.
type Section int

const (
	SectionNone Section = iota
	SectionTitle
	SectionDescription
	SectionLevel
	SectionDelivery
	SectionDuration
	SectionObjectives
	SectionAudience
	SectionPrerequisites
	SectionRegistration
	SectionOutline
)

var sectionNames = map[Section]string{
	SectionNone:          "none",
	SectionTitle:         "title",
	SectionDescription:   "description",
	SectionLevel:         "level",
	SectionDelivery:      "deliveryMethod",
	SectionDuration:      "duration",
	SectionObjectives:    "objectives",
	SectionAudience:      "audience",
	SectionPrerequisites: "prerequisites",
	SectionRegistration:  "registration",
	SectionOutline:       "outline",
}

func (s Section) String() string {
	if n, ok := sectionNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSection maps a section name (as printed by String) back to its tag.
func ParseSection(name string) (Section, bool) {
	for s, n := range sectionNames {
		if strings.EqualFold(n, name) {
			return s, true
		}
	}
	return SectionNone, false
}

// singleValue sections keep one scalar per course.
func (s Section) singleValue() bool {
	switch s {
	case SectionTitle, SectionDescription, SectionLevel, SectionDelivery, SectionDuration, SectionRegistration:
		return true
	}
	return false
}

type Header struct {
	Phrase  string
	Section Section
}

// DefaultHeaders lists the known header phrasings. Several phrasings may map
// to the same section.
var DefaultHeaders = []Header{
	{"과정명", SectionTitle},
	{"과정 이름", SectionTitle},
	{"Course title", SectionTitle},
	{"Course name", SectionTitle},

	{"과정 설명", SectionDescription},
	{"Course description", SectionDescription},
	{"Description", SectionDescription},

	{"레벨", SectionLevel},
	{"난이도", SectionLevel},
	{"교육 난이도", SectionLevel},
	{"Level", SectionLevel},
	{"Course level", SectionLevel},

	{"제공 방법", SectionDelivery},
	{"제공 방식", SectionDelivery},
	{"교육 방법", SectionDelivery},
	{"교육방법", SectionDelivery},
	{"Delivery method", SectionDelivery},

	{"소요 시간", SectionDuration},
	{"교육 기간", SectionDuration},
	{"Duration", SectionDuration},

	{"과정 목표", SectionObjectives},
	{"Course objectives", SectionObjectives},
	{"Objectives", SectionObjectives},

	{"수강 대상", SectionAudience},
	{"Intended audience", SectionAudience},
	{"Audience", SectionAudience},

	{"수강 전 권장 사항", SectionPrerequisites},
	{"사전 요구 사항", SectionPrerequisites},
	{"Prerequisites", SectionPrerequisites},

	{"등록", SectionRegistration},
	{"Registration", SectionRegistration},

	{"과정 개요", SectionOutline},
	{"커리큘럼", SectionOutline},
	{"Course outline", SectionOutline},
	{"Outline", SectionOutline},
}

// Classifier labels a paragraph as a known header or SectionNone.
// Matching is on the whole paragraph after trimming, whitespace collapsing,
// case folding and dropping one trailing colon. It never matches substrings.
type Classifier struct {
	table map[string]Section
}

// NewClassifier builds a classifier from DefaultHeaders plus extra.
// Extra phrasings override defaults with the same key.
func NewClassifier(extra ...Header) *Classifier {
	c := &Classifier{table: make(map[string]Section, len(DefaultHeaders)+len(extra))}
	for _, h := range DefaultHeaders {
		c.table[headerKey(h.Phrase)] = h.Section
	}
	for _, h := range extra {
		if k := headerKey(h.Phrase); k != "" {
			c.table[k] = h.Section
		}
	}
	return c
}

func (c *Classifier) Classify(paragraph string) Section {
	k := headerKey(paragraph)
	if k == "" {
		return SectionNone
	}
	return c.table[k]
}

func headerKey(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSuffix(s, "：")
	return strings.ToLower(strings.TrimSpace(s))
}
