package parser

import (
	"strings"

	"course-catalog/internal/logger"
	"course-catalog/internal/outline"
	"course-catalog/internal/source"
)

type Options struct {
	// ExtraHeaders are additional header phrasings for the classifier.
	ExtraHeaders []Header
	Outline      outline.Options
	Log          *logger.Logger
}

// Parser runs the block extractor over one document at a time. It keeps no
// per-document state, so one Parser may serve several goroutines.
type Parser struct {
	classifier *Classifier
	rec        *outline.Recognizer
	log        *logger.Logger
}

func New(opts Options) *Parser {
	return &Parser{
		classifier: NewClassifier(opts.ExtraHeaders...),
		rec:        outline.New(opts.Outline),
		log:        logger.OrNop(opts.Log),
	}
}

// Result is what one pass over a document produced.
type Result struct {
	Drafts []Draft
	// Dropped counts paragraphs outside any course or section.
	Dropped int
	// IgnoredTables counts grids that were neither metadata nor outline tables.
	IgnoredTables int
}

// state is the extractor context threaded through every transition.
type state struct {
	source  string
	section Section
	buf     []string
	current int // index into drafts, -1 while awaiting a course
	drafts  []Draft
	// pending holds metadata-table values seen while the next course
	// title was still buffered.
	pending []metaValue
	dropped int
	ignored int
}

func (p *Parser) Parse(doc source.Document) Result {
	st := state{source: doc.Name, current: -1}
	for _, b := range doc.Blocks {
		if b.IsTable() {
			st = p.table(st, b.Rows)
			continue
		}
		st = p.text(st, b.Text)
	}
	st = p.flush(st)
	st = p.settlePending(st)
	return Result{Drafts: st.drafts, Dropped: st.dropped, IgnoredTables: st.ignored}
}

// ParseParagraphs is Parse over plain paragraph strings.
func (p *Parser) ParseParagraphs(paragraphs []string) Result {
	return p.Parse(source.FromParagraphs("", paragraphs))
}

func (p *Parser) text(st state, line string) state {
	line = strings.TrimSpace(line)
	if line == "" {
		return st
	}

	sec := p.classifier.Classify(line)
	switch sec {
	case SectionNone:
		st.buf = append(st.buf, line)
		return st

	case SectionTitle:
		st = p.flush(st)
		st = p.settlePending(st)
		st = p.startCourse(st, "")

	case SectionDescription:
		if title, rest, ok := titleCandidate(st); ok {
			pend := st.pending
			st.pending = nil
			st.buf = rest
			st = p.flush(st)
			st = p.startCourse(st, title)
			st.pending = pend
			st = p.settlePending(st)
		} else {
			st = p.flush(st)
			if st.current < 0 {
				st = p.startCourse(st, "")
			}
			st = p.settlePending(st)
		}

	default:
		st = p.flush(st)
		st = p.settlePending(st)
	}

	p.log.Debug("parser: section", "source", st.source, "section", sec.String())
	st.section = sec
	return st
}

// titleCandidate pops the last buffered paragraph as the next course title.
// Bullets and outline markers never qualify. Inside a course, only sections
// that cannot absorb plain text (lists, outline, none) end with a title;
// under a single-value section the paragraph is read as a continuation, so
// a recurring header stays in the current course.
func titleCandidate(st state) (string, []string, bool) {
	if len(st.buf) == 0 {
		return "", nil, false
	}
	last := st.buf[len(st.buf)-1]
	if outline.IsBullet(last) || outline.IsMarker(last) {
		return "", nil, false
	}
	if st.current >= 0 && st.section.singleValue() {
		return "", nil, false
	}
	return last, st.buf[:len(st.buf)-1], true
}

func (p *Parser) startCourse(st state, title string) state {
	st.drafts = append(st.drafts, Draft{Source: st.source, Title: title})
	st.current = len(st.drafts) - 1
	st.section = SectionNone
	p.log.Debug("parser: course", "source", st.source, "title", title)
	return st
}

// flush hands the buffer to the active section's handler and empties it.
func (p *Parser) flush(st state) state {
	if len(st.buf) == 0 {
		return st
	}
	if st.current < 0 || st.section == SectionNone {
		st.dropped += len(st.buf)
		p.log.Debug("parser: dropped paragraphs", "source", st.source, "count", len(st.buf))
	} else {
		apply(&st.drafts[st.current], st.section, st.buf, p.rec)
	}
	st.buf = nil
	return st
}

func (p *Parser) settlePending(st state) state {
	if len(st.pending) == 0 || st.current < 0 {
		return st
	}
	applyMeta(&st.drafts[st.current], st.pending)
	st.pending = nil
	return st
}

func (p *Parser) table(st state, rows [][]string) state {
	if vals, ok := p.metadataTable(rows); ok {
		if _, _, maybeTitle := titleCandidate(st); maybeTitle || st.current < 0 {
			st.pending = append(st.pending, vals...)
			return st
		}
		applyMeta(&st.drafts[st.current], vals)
		return st
	}

	if st.section == SectionOutline {
		if lines, ok := outlineTable(rows); ok {
			st.buf = append(st.buf, lines...)
			return st
		}
	}

	st.ignored++
	p.log.Debug("parser: ignored table", "source", st.source, "rows", len(rows))
	return st
}
