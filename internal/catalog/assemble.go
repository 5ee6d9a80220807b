package catalog

import (
	"fmt"
	"strings"

	"course-catalog/internal/domain"
	"course-catalog/internal/logger"
	"course-catalog/internal/normalize"
	"course-catalog/internal/parser"
)

const DefaultDescriptionTemplate = "%s에 대한 과정 설명입니다."

type Options struct {
	DefaultDelivery string
	// DescriptionTemplate receives the course title through one %s verb.
	DescriptionTemplate string
	Log                 *logger.Logger
}

type Assembler struct {
	delivery string
	descTmpl string
	log      *logger.Logger
}

func NewAssembler(opts Options) *Assembler {
	a := &Assembler{
		delivery: strings.TrimSpace(opts.DefaultDelivery),
		descTmpl: opts.DescriptionTemplate,
		log:      logger.OrNop(opts.Log),
	}
	if a.delivery == "" {
		a.delivery = domain.DefaultDelivery
	}
	if strings.Count(a.descTmpl, "%s") != 1 {
		a.descTmpl = DefaultDescriptionTemplate
	}
	return a
}

// Assemble folds one draft into a Course and fills defaults so no index key
// field is empty. It returns false for drafts without a title.
func (a *Assembler) Assemble(d parser.Draft) (domain.Course, bool) {
	return a.Finish(domain.Course{
		Title:            d.Title,
		Description:      d.Description,
		Level:            d.Level,
		DeliveryMethod:   d.DeliveryMethod,
		Duration:         d.Duration,
		Objectives:       d.Objectives,
		Audience:         d.Audience,
		Prerequisites:    d.Prerequisites,
		RegistrationLink: d.RegistrationLink,
		Modules:          d.Outline.Modules,
		Labs:             d.Outline.Labs,
	})
}

// Finish normalizes, deduplicates and fills defaults on a course that may
// come from another producer. It returns false when the title is empty.
func (a *Assembler) Finish(in domain.Course) (domain.Course, bool) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Course{}, false
	}

	c := domain.Course{
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Level:            normalize.Level(in.Level),
		DeliveryMethod:   strings.TrimSpace(in.DeliveryMethod),
		Duration:         normalize.Duration(in.Duration),
		Objectives:       nonNil(in.Objectives),
		Audience:         nonNil(in.Audience),
		Prerequisites:    nonNil(in.Prerequisites),
		RegistrationLink: strings.TrimSpace(in.RegistrationLink),
		Modules:          DedupModules(in.Modules),
		Labs:             DedupLabs(in.Labs),
	}
	if c.Description == "" {
		c.Description = fmt.Sprintf(a.descTmpl, title)
	}
	if c.DeliveryMethod == "" {
		c.DeliveryMethod = a.delivery
	}
	for i := range c.Modules {
		c.Modules[i].Topics = nonNil(c.Modules[i].Topics)
	}

	if n := uniqueModuleOrders(c.Modules) + uniqueLabOrders(c.Labs); n > 0 {
		a.log.Debug("catalog: reassigned colliding ordinals", "course", title, "count", n)
	}
	if dm, dl := len(in.Modules)-len(c.Modules), len(in.Labs)-len(c.Labs); dm+dl > 0 {
		a.log.Debug("catalog: dropped duplicates", "course", title, "modules", dm, "labs", dl)
	}
	return c, true
}

// AssembleAll assembles drafts in order. Untitled drafts are skipped and a
// title seen earlier in the run keeps its first course.
func (a *Assembler) AssembleAll(drafts []parser.Draft) []domain.Course {
	seen := make(map[string]bool, len(drafts))
	out := make([]domain.Course, 0, len(drafts))
	for _, d := range drafts {
		c, ok := a.Assemble(d)
		if !ok {
			a.log.Warn("catalog: skipping course block without a title", "source", d.Source)
			continue
		}
		if seen[c.Title] {
			a.log.Warn("catalog: duplicate course title in run", "title", c.Title, "source", d.Source)
			continue
		}
		seen[c.Title] = true
		out = append(out, c)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
