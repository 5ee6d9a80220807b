package catalog

import (
	"reflect"
	"testing"

	"course-catalog/internal/domain"
	"course-catalog/internal/outline"
	"course-catalog/internal/parser"
)

func TestAssembleExampleCourse(t *testing.T) {
	p := parser.New(parser.Options{})
	res := p.ParseParagraphs([]string{
		"Example Course", "과정 설명", "This is a test course.", "레벨", "기초",
		"과정 개요", "모듈 1: 소개", "· 토픽 A", "· 토픽 B", "실습 1: 환경 설정",
	})

	c, ok := NewAssembler(Options{}).Assemble(res.Drafts[0])
	if !ok {
		t.Fatal("Expected course to assemble")
	}
	if c.Title != "Example Course" || c.Description != "This is a test course." {
		t.Errorf("Unexpected course %+v", c)
	}
	if c.Level != "beginner" {
		t.Errorf("Expected level beginner, got %q", c.Level)
	}
	if len(c.Modules) != 1 || !reflect.DeepEqual(c.Modules[0].Topics, []string{"토픽 A", "토픽 B"}) {
		t.Errorf("Unexpected modules %+v", c.Modules)
	}
	if len(c.Labs) != 1 || c.Labs[0].RelatedModule != "모듈 1: 소개" {
		t.Errorf("Unexpected labs %+v", c.Labs)
	}
}

func TestAssembleDuplicateModuleKeepsFirst(t *testing.T) {
	p := parser.New(parser.Options{})
	res := p.ParseParagraphs([]string{
		"Course", "과정 설명", "Desc.", "과정 개요",
		"모듈 1: 소개", "· first", "· second",
		"모듈 1: 소개", "· other",
		"실습 1: 환경", "실습 1: 환경",
	})

	c, _ := NewAssembler(Options{}).Assemble(res.Drafts[0])
	if len(c.Modules) != 1 {
		t.Fatalf("Expected 1 module, got %d", len(c.Modules))
	}
	if !reflect.DeepEqual(c.Modules[0].Topics, []string{"first", "second"}) {
		t.Errorf("Expected first occurrence topics, got %v", c.Modules[0].Topics)
	}
	if len(c.Labs) != 1 {
		t.Errorf("Expected 1 lab, got %d", len(c.Labs))
	}
}

func TestAssembleDefaults(t *testing.T) {
	c, ok := NewAssembler(Options{}).Assemble(parser.Draft{Title: "  No Metadata  "})
	if !ok {
		t.Fatal("Expected course to assemble")
	}

	if c.Title != "No Metadata" {
		t.Errorf("Expected trimmed title, got %q", c.Title)
	}
	if c.Level != domain.Unspecified || c.Duration != domain.Unspecified {
		t.Errorf("Expected unspecified level and duration, got %q / %q", c.Level, c.Duration)
	}
	if c.DeliveryMethod != domain.DefaultDelivery {
		t.Errorf("Expected default delivery, got %q", c.DeliveryMethod)
	}
	if c.Description != "No Metadata에 대한 과정 설명입니다." {
		t.Errorf("Unexpected placeholder description %q", c.Description)
	}
	if c.Objectives == nil || c.Audience == nil || c.Prerequisites == nil {
		t.Error("Expected empty, non-nil lists")
	}
}

func TestAssembleConfiguredDefaults(t *testing.T) {
	a := NewAssembler(Options{DefaultDelivery: "virtual", DescriptionTemplate: "About %s"})
	c, _ := a.Assemble(parser.Draft{Title: "X"})

	if c.DeliveryMethod != "virtual" || c.Description != "About X" {
		t.Errorf("Unexpected defaults %q / %q", c.DeliveryMethod, c.Description)
	}

	// a template without exactly one %s falls back
	a = NewAssembler(Options{DescriptionTemplate: "static text"})
	if c, _ := a.Assemble(parser.Draft{Title: "Y"}); c.Description != "Y에 대한 과정 설명입니다." {
		t.Errorf("Expected default template, got %q", c.Description)
	}
}

func TestAssembleRequiredFieldsNeverEmpty(t *testing.T) {
	drafts := []parser.Draft{
		{Title: "A"},
		{Title: "B", Level: "   ", Duration: "", DeliveryMethod: " "},
		{Title: "C", Description: "d", Level: "Level 300", Duration: "8시간", DeliveryMethod: "ILT"},
	}
	a := NewAssembler(Options{})
	for _, d := range drafts {
		c, _ := a.Assemble(d)
		for name, v := range map[string]string{
			"title": c.Title, "description": c.Description, "level": c.Level,
			"duration": c.Duration, "deliveryMethod": c.DeliveryMethod,
		} {
			if v == "" {
				t.Errorf("%s: field %s is empty", d.Title, name)
			}
		}
	}
}

func TestAssembleMalformedOrdinals(t *testing.T) {
	p := parser.New(parser.Options{})
	res := p.ParseParagraphs([]string{
		"Course", "과정 설명", "Desc.", "과정 개요",
		"모듈 1: 개요", "모듈 X: 소개", "모듈 2: 심화", "모듈 1: 다시",
	})

	c, _ := NewAssembler(Options{}).Assemble(res.Drafts[0])
	seen := map[int]string{}
	for _, m := range c.Modules {
		if prev, dup := seen[m.Order]; dup {
			t.Errorf("Ordinal %d shared by %q and %q", m.Order, prev, m.Title)
		}
		seen[m.Order] = m.Title
	}
	if len(c.Modules) != 4 {
		t.Errorf("Expected 4 distinct-title modules, got %d", len(c.Modules))
	}
	if c.Modules[0].Order != 1 {
		t.Errorf("Expected first-seen module to keep ordinal 1, got %d", c.Modules[0].Order)
	}
}

func TestAssembleAllSkipsUntitledAndDuplicateTitles(t *testing.T) {
	drafts := []parser.Draft{
		{Title: "", Description: "orphan"},
		{Title: "Course", Description: "first"},
		{Title: "Other"},
		{Title: "Course", Description: "second"},
	}

	got := NewAssembler(Options{}).AssembleAll(drafts)
	if len(got) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(got))
	}
	if got[0].Title != "Course" || got[0].Description != "first" {
		t.Errorf("Expected first Course to win, got %+v", got[0])
	}
}

func TestDedupKeepsNearDuplicates(t *testing.T) {
	mods := DedupModules([]domain.Module{
		{Title: "모듈 1: 소개", Order: 1},
		{Title: "모듈 1: 소개 ", Order: 1},
		{Title: "모듈 1:소개", Order: 1},
	})
	if len(mods) != 3 {
		t.Errorf("Expected near-duplicates to survive, got %d", len(mods))
	}
}

func TestUniqueOrders(t *testing.T) {
	labs := []domain.Lab{{Title: "a", Order: 2}, {Title: "b", Order: 2}, {Title: "c", Order: 0}, {Title: "d", Order: 1}}
	if moved := uniqueLabOrders(labs); moved != 2 {
		t.Errorf("Expected 2 moved ordinals, got %d", moved)
	}
	want := []int{2, 3, 4, 1}
	for i, l := range labs {
		if l.Order != want[i] {
			t.Errorf("lab %s order = %d, want %d", l.Title, l.Order, want[i])
		}
	}
}

func TestAssembleLabFallbackDescriptionSurvives(t *testing.T) {
	p := parser.New(parser.Options{Outline: outline.Options{LabFallback: true}})
	res := p.ParseParagraphs([]string{"Course", "과정 설명", "Desc.", "과정 개요", "실습 1: 설정", "설명 문장."})

	c, _ := NewAssembler(Options{}).Assemble(res.Drafts[0])
	if c.Labs[0].Description != "설명 문장." {
		t.Errorf("Unexpected lab description %q", c.Labs[0].Description)
	}
}
