package parser

import (
	"reflect"
	"testing"

	"course-catalog/internal/outline"
	"course-catalog/internal/source"
)

func TestParseExampleCourse(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Example Course",
		"과정 설명",
		"This is a test course.",
		"레벨",
		"기초",
		"과정 개요",
		"모듈 1: 소개",
		"· 토픽 A",
		"· 토픽 B",
		"실습 1: 환경 설정",
	})

	if len(res.Drafts) != 1 {
		t.Fatalf("Expected 1 draft, got %d", len(res.Drafts))
	}
	d := res.Drafts[0]
	if d.Title != "Example Course" {
		t.Errorf("Expected title %q, got %q", "Example Course", d.Title)
	}
	if d.Description != "This is a test course." {
		t.Errorf("Unexpected description %q", d.Description)
	}
	if d.Level != "기초" {
		t.Errorf("Expected raw level 기초, got %q", d.Level)
	}
	if len(d.Outline.Modules) != 1 || d.Outline.Modules[0].Title != "모듈 1: 소개" {
		t.Fatalf("Unexpected modules %+v", d.Outline.Modules)
	}
	if !reflect.DeepEqual(d.Outline.Modules[0].Topics, []string{"토픽 A", "토픽 B"}) {
		t.Errorf("Unexpected topics %v", d.Outline.Modules[0].Topics)
	}
	if len(d.Outline.Labs) != 1 || d.Outline.Labs[0].RelatedModule != "모듈 1: 소개" {
		t.Errorf("Unexpected labs %+v", d.Outline.Labs)
	}
}

func TestParseSeveralCourses(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"AWS Cloud Practitioner Essentials",
		"과정 설명",
		"First paragraph.",
		"Second paragraph.",
		"과정 개요",
		"모듈 1: 클라우드 소개",
		"· 클라우드 개념",
		"Architecting on AWS",
		"Course description",
		"Design resilient systems.",
		"Level",
		"Intermediate",
	})

	if len(res.Drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d: %+v", len(res.Drafts), res.Drafts)
	}
	if res.Drafts[0].Description != "First paragraph. Second paragraph." {
		t.Errorf("Unexpected joined description %q", res.Drafts[0].Description)
	}
	if len(res.Drafts[0].Outline.Modules[0].Topics) != 1 {
		t.Errorf("Expected title candidate to be popped from the outline buffer, got %v", res.Drafts[0].Outline.Modules[0].Topics)
	}
	if res.Drafts[0].Outline.Dropped != 0 {
		t.Errorf("Expected no dropped outline text, got %d", res.Drafts[0].Outline.Dropped)
	}
	if res.Drafts[1].Title != "Architecting on AWS" || res.Drafts[1].Level != "Intermediate" {
		t.Errorf("Unexpected second draft %+v", res.Drafts[1])
	}
}

func TestParseMarkerIsNeverTitle(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Course",
		"과정 설명",
		"Intro.",
		"과정 개요",
		"실습 1: 환경 설정",
		"과정 설명",
		"More intro.",
	})

	if len(res.Drafts) != 1 {
		t.Fatalf("Expected 1 draft, got %d", len(res.Drafts))
	}
	if res.Drafts[0].Description != "More intro." {
		t.Errorf("Expected recurring description to overwrite, got %q", res.Drafts[0].Description)
	}
	if len(res.Drafts[0].Outline.Labs) != 1 {
		t.Errorf("Expected the lab to stay in the outline, got %+v", res.Drafts[0].Outline.Labs)
	}
}

func TestParseRecurringDescriptionStaysInCourse(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected string
	}{
		{
			name:     "description after description",
			input:    []string{"Example Course", "과정 설명", "Para one.", "Para two.", "과정 설명", "Para three."},
			expected: "Para three.",
		},
		{
			name:     "description after a single-value section",
			input:    []string{"Example Course", "과정 설명", "Para one.", "레벨", "기초", "중급 과정 수강 전 권장", "과정 설명", "Second part."},
			expected: "Second part.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := New(Options{}).ParseParagraphs(tc.input)
			if len(res.Drafts) != 1 {
				t.Fatalf("Expected 1 draft, got %d: %+v", len(res.Drafts), res.Drafts)
			}
			d := res.Drafts[0]
			if d.Title != "Example Course" || d.Description != tc.expected {
				t.Errorf("Unexpected draft %+v", d)
			}
		})
	}
}

func TestParseNewCourseAfterListSection(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Course A", "과정 설명", "A.",
		"수강 대상", "- 개발자",
		"Course B", "과정 설명", "B.",
	})

	if len(res.Drafts) != 2 || res.Drafts[1].Title != "Course B" {
		t.Fatalf("Expected a second course after the list section, got %+v", res.Drafts)
	}
	if !reflect.DeepEqual(res.Drafts[0].Audience, []string{"개발자"}) {
		t.Errorf("Unexpected audience %v", res.Drafts[0].Audience)
	}
}

func TestParseMetadataRecurrence(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Course",
		"과정 설명",
		"Desc.",
		"레벨",
		"기초",
		"소요 시간",
		"1일",
		"레벨",
		"중급",
		"소요 시간",
		"",
	})

	d := res.Drafts[0]
	if d.Level != "중급" {
		t.Errorf("Expected last non-empty level, got %q", d.Level)
	}
	if d.Duration != "1일" {
		t.Errorf("Expected empty recurrence to keep the earlier duration, got %q", d.Duration)
	}
}

func TestParseSingleValueKeepsFirstParagraph(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Course",
		"과정 설명",
		"Desc.",
		"제공 방법",
		"강의식 교육(ILT)",
		"ignored second line",
		"소요 시간",
		"3일",
	})

	if got := res.Drafts[0].DeliveryMethod; got != "강의식 교육(ILT)" {
		t.Errorf("Expected first paragraph as delivery method, got %q", got)
	}
}

func TestParseListsAndRegistration(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Course",
		"과정 설명",
		"Desc.",
		"과정 목표",
		"이 과정에서 배우게 될 내용은 다음과 같습니다.",
		"· 목표 1",
		"• 목표 2",
		"수강 대상",
		"- 개발자",
		"수강 전 권장 사항",
		"· AWS 기초",
		"등록",
		"아래 링크에서 등록하세요.",
		"등록 링크: https://aws.amazon.com/training/course-123.",
		"https://other.example.com",
	})

	d := res.Drafts[0]
	if !reflect.DeepEqual(d.Objectives, []string{"목표 1", "목표 2"}) {
		t.Errorf("Unexpected objectives %v", d.Objectives)
	}
	if !reflect.DeepEqual(d.Audience, []string{"개발자"}) {
		t.Errorf("Unexpected audience %v", d.Audience)
	}
	if !reflect.DeepEqual(d.Prerequisites, []string{"AWS 기초"}) {
		t.Errorf("Unexpected prerequisites %v", d.Prerequisites)
	}
	if d.RegistrationLink != "https://aws.amazon.com/training/course-123" {
		t.Errorf("Unexpected registration link %q", d.RegistrationLink)
	}
}

func TestParseExplicitTitleHeader(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"과정명",
		"Developing on AWS",
		"과정 설명",
		"Build apps.",
		"과정명",
		"Security Engineering on AWS",
		"레벨",
		"고급",
	})

	if len(res.Drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d", len(res.Drafts))
	}
	if res.Drafts[0].Title != "Developing on AWS" || res.Drafts[0].Description != "Build apps." {
		t.Errorf("Unexpected first draft %+v", res.Drafts[0])
	}
	if res.Drafts[1].Title != "Security Engineering on AWS" || res.Drafts[1].Level != "고급" {
		t.Errorf("Unexpected second draft %+v", res.Drafts[1])
	}
}

func TestParseDropsTextOutsideCourses(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{
		"Table of contents",
		"레벨",
		"기초",
		"Course",
		"과정 설명",
		"Desc.",
	})

	if res.Dropped != 2 {
		t.Errorf("Expected 2 dropped paragraphs, got %d", res.Dropped)
	}
	if len(res.Drafts) != 1 || res.Drafts[0].Level != "" {
		t.Errorf("Expected level before any course to be dropped, got %+v", res.Drafts)
	}
}

func TestParseUntitledDescription(t *testing.T) {
	res := New(Options{}).ParseParagraphs([]string{"과정 설명", "Orphan description."})

	if len(res.Drafts) != 1 || res.Drafts[0].Title != "" {
		t.Fatalf("Expected one untitled draft, got %+v", res.Drafts)
	}
}

func TestParseExtraHeaders(t *testing.T) {
	p := New(Options{ExtraHeaders: []Header{{Phrase: "교육 개요", Section: SectionOutline}}})
	res := p.ParseParagraphs([]string{"Course", "과정 설명", "Desc.", "교육 개요", "모듈 1: 소개"})

	if len(res.Drafts[0].Outline.Modules) != 1 {
		t.Errorf("Expected extra outline header to be honored, got %+v", res.Drafts[0].Outline)
	}
}

func TestParseLabFallbackOption(t *testing.T) {
	p := New(Options{Outline: outline.Options{LabFallback: true}})
	res := p.ParseParagraphs([]string{
		"Course", "과정 설명", "Desc.", "과정 개요",
		"모듈 1: 소개", "실습 1: 설정", "콘솔에 로그인합니다.",
	})

	if got := res.Drafts[0].Outline.Labs[0].Description; got != "콘솔에 로그인합니다." {
		t.Errorf("Expected lab description from fallback, got %q", got)
	}
}

func TestParseMetadataTable(t *testing.T) {
	doc := source.Document{Blocks: []source.Block{
		{Text: "Course One"},
		{Rows: [][]string{{"레벨", "제공 방법", "소요 시간"}, {"중급", "강의식 교육", "3일"}}},
		{Text: "과정 설명"},
		{Text: "Desc."},
		{Text: "과정 개요"},
		{Text: "모듈 1: 소개"},
		{Rows: [][]string{{"Level", "Delivery method", "Duration"}, {"Advanced", "Virtual", "1 day"}}},
	}}

	res := New(Options{}).Parse(doc)
	d := res.Drafts[0]
	if d.Title != "Course One" {
		t.Fatalf("Expected table to leave the title candidate buffered, got %q", d.Title)
	}
	if d.Level != "Advanced" || d.DeliveryMethod != "Virtual" || d.Duration != "1 day" {
		t.Errorf("Expected later table to win, got %+v", d)
	}
}

func TestParsePendingMetadataTableAppliesToNewCourse(t *testing.T) {
	doc := source.Document{Blocks: []source.Block{
		{Text: "Course One"},
		{Text: "과정 설명"},
		{Text: "Desc."},
		{Text: "과정 개요"},
		{Text: "모듈 1: 소개"},
		{Text: "Course Two"},
		{Rows: [][]string{{"레벨", "소요 시간"}, {"고급", "2일"}}},
		{Text: "과정 설명"},
		{Text: "Desc two."},
	}}

	res := New(Options{}).Parse(doc)
	if len(res.Drafts) != 2 {
		t.Fatalf("Expected 2 drafts, got %d", len(res.Drafts))
	}
	if res.Drafts[0].Level != "" {
		t.Errorf("Expected first course untouched, got level %q", res.Drafts[0].Level)
	}
	if res.Drafts[1].Level != "고급" || res.Drafts[1].Duration != "2일" {
		t.Errorf("Expected table values on second course, got %+v", res.Drafts[1])
	}
}

func TestParseOutlineTable(t *testing.T) {
	doc := source.Document{Blocks: []source.Block{
		{Text: "Course"},
		{Text: "과정 설명"},
		{Text: "Desc."},
		{Text: "과정 개요"},
		{Rows: [][]string{
			{"모듈", "내용"},
			{"소개", "클라우드 개념\nAWS 글로벌 인프라"},
			{"모듈 3: 보안", "· IAM"},
		}},
		{Rows: [][]string{{"unrelated", "grid"}, {"a", "b"}}},
	}}

	res := New(Options{}).Parse(doc)
	mods := res.Drafts[0].Outline.Modules
	if len(mods) != 2 {
		t.Fatalf("Expected 2 modules, got %+v", mods)
	}
	if mods[0].Title != "모듈 1: 소개" || mods[0].Order != 1 {
		t.Errorf("Unexpected first module %+v", mods[0])
	}
	if !reflect.DeepEqual(mods[0].Topics, []string{"클라우드 개념", "AWS 글로벌 인프라"}) {
		t.Errorf("Unexpected topics %v", mods[0].Topics)
	}
	if mods[1].Order != 3 || !reflect.DeepEqual(mods[1].Topics, []string{"IAM"}) {
		t.Errorf("Unexpected second module %+v", mods[1])
	}
	if res.IgnoredTables != 1 {
		t.Errorf("Expected 1 ignored table, got %d", res.IgnoredTables)
	}
}

func TestParseDayTable(t *testing.T) {
	doc := source.Document{Blocks: []source.Block{
		{Text: "Course"},
		{Text: "과정 설명"},
		{Text: "Desc."},
		{Text: "과정 개요"},
		{Rows: [][]string{{"일차", "내용"}, {"1", "개념"}, {"2", "실습 1: 배포"}}},
	}}

	res := New(Options{}).Parse(doc)
	o := res.Drafts[0].Outline
	if len(o.Modules) != 2 || o.Modules[1].Title != "Day 2" {
		t.Fatalf("Expected day modules, got %+v", o.Modules)
	}
	// cells become bullets, so the lab text is a topic here
	if !reflect.DeepEqual(o.Modules[1].Topics, []string{"실습 1: 배포"}) {
		t.Errorf("Unexpected day 2 topics %v", o.Modules[1].Topics)
	}
}
