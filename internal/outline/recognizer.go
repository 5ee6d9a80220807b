package outline

import (
	"strings"

	"course-catalog/internal/domain"
)

// Options toggles optional recognizer behavior.
type Options struct {
	// LabFallback appends LabDescriptionRule after the configured rules.
	LabFallback bool
	// Rules overrides DefaultRules when non-nil.
	Rules []Rule
}

// Recognizer turns the paragraphs of one outline section into modules and
// labs. It holds no per-document state; everything mutable lives in Result.
type Recognizer struct {
	rules []Rule
}

func New(opts Options) *Recognizer {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules
	}
	rules = append([]Rule(nil), rules...)
	if opts.LabFallback {
		rules = append(rules, LabDescriptionRule)
	}
	return &Recognizer{rules: rules}
}

// Result accumulates a course's outline across every outline section the
// course has. Ordinal fallbacks look at all siblings collected so far.
type Result struct {
	Modules []domain.Module
	Labs    []domain.Lab
	// Dropped counts outline paragraphs no rule applied to.
	Dropped int
	// Fallbacks counts markers that received a sequential ordinal.
	Fallbacks int
}

// state is the {no-module, in-module} machine. It is reset every time an
// outline section starts.
type state struct {
	current  int // index into Result.Modules, -1 = no module
	day      int // last day marker seen while modules are numbered
	numbered bool
}

// Recognize feeds one outline section through the rules and appends what
// it finds to res.
func (r *Recognizer) Recognize(paragraphs []string, res *Result) {
	st := state{current: -1, numbered: r.hasNumberedModules(paragraphs)}
	for _, p := range paragraphs {
		line := collapse(p)
		if line == "" {
			continue
		}
		st = r.step(st, line, res)
	}
}

func (r *Recognizer) step(st state, line string, res *Result) state {
	for _, rule := range r.rules {
		g := rule.Pattern.FindStringSubmatch(line)
		if g == nil {
			continue
		}
		m := rule.Extract(line, g)
		next, ok := apply(st, m, res)
		if ok {
			return next
		}
	}
	res.Dropped++
	return st
}

func apply(st state, m Match, res *Result) (state, bool) {
	switch m.Kind {
	case KindDay:
		if st.numbered {
			st.day = m.Ordinal
			return st, true
		}
		res.Modules = append(res.Modules, domain.Module{Title: m.Title, Order: m.Ordinal, Day: m.Ordinal})
		st.current = len(res.Modules) - 1
		return st, true

	case KindModule:
		ord := m.Ordinal
		if ord <= 0 {
			ord = nextModuleOrdinal(res.Modules)
			res.Fallbacks++
		}
		res.Modules = append(res.Modules, domain.Module{Title: m.Title, Order: ord, Day: st.day})
		st.current = len(res.Modules) - 1
		return st, true

	case KindLab:
		ord := m.Ordinal
		if ord <= 0 {
			ord = nextLabOrdinal(res.Labs)
			res.Fallbacks++
		}
		lab := domain.Lab{Title: m.Title, Order: ord}
		if st.current >= 0 {
			lab.RelatedModule = res.Modules[st.current].Title
		}
		res.Labs = append(res.Labs, lab)
		return st, true

	case KindTopic:
		if st.current < 0 || m.Text == "" {
			return st, false
		}
		mod := &res.Modules[st.current]
		mod.Topics = append(mod.Topics, m.Text)
		return st, true

	case KindLabNote:
		if len(res.Labs) == 0 {
			return st, false
		}
		lab := &res.Labs[len(res.Labs)-1]
		if lab.Description == "" {
			lab.Description = m.Text
		} else {
			lab.Description += " " + m.Text
		}
		return st, true
	}
	return st, false
}

func (r *Recognizer) hasNumberedModules(paragraphs []string) bool {
	for _, p := range paragraphs {
		line := collapse(p)
		for _, rule := range r.rules {
			if rule.Kind == KindModule && rule.Pattern.MatchString(line) {
				return true
			}
		}
	}
	return false
}

func nextModuleOrdinal(mods []domain.Module) int {
	max := 0
	for _, m := range mods {
		if m.Order > max {
			max = m.Order
		}
	}
	return max + 1
}

func nextLabOrdinal(labs []domain.Lab) int {
	max := 0
	for _, l := range labs {
		if l.Order > max {
			max = l.Order
		}
	}
	return max + 1
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
