package parser

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	testCases := []struct {
		input    string
		expected Section
	}{
		{"과정 설명", SectionDescription},
		{"  과정 설명  ", SectionDescription},
		{"과정  설명", SectionDescription},
		{"레벨", SectionLevel},
		{"제공 방법", SectionDelivery},
		{"제공 방식", SectionDelivery},
		{"소요 시간:", SectionDuration},
		{"과정 목표", SectionObjectives},
		{"수강 대상", SectionAudience},
		{"수강 전 권장 사항", SectionPrerequisites},
		{"등록", SectionRegistration},
		{"과정 개요", SectionOutline},
		{"COURSE OUTLINE", SectionOutline},
		{"과정명", SectionTitle},
		{"이 과정의 레벨은 기초입니다", SectionNone},
		{"과정 설명입니다", SectionNone},
		{"", SectionNone},
	}

	for _, tc := range testCases {
		if got := c.Classify(tc.input); got != tc.expected {
			t.Errorf("Classify(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestClassifierExtraOverrides(t *testing.T) {
	c := NewClassifier(Header{Phrase: "Outline", Section: SectionNone}, Header{Phrase: "강의 계획", Section: SectionOutline})

	if got := c.Classify("Outline"); got != SectionNone {
		t.Errorf("Expected override to disable Outline, got %v", got)
	}
	if got := c.Classify("강의 계획"); got != SectionOutline {
		t.Errorf("Expected extra phrasing, got %v", got)
	}
}

func TestParseSection(t *testing.T) {
	for s, name := range sectionNames {
		got, ok := ParseSection(name)
		if !ok || got != s {
			t.Errorf("ParseSection(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseSection("bogus"); ok {
		t.Error("Expected bogus section name to be rejected")
	}
}

func TestFindURL(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"등록: https://example.com/a?b=1.", "https://example.com/a?b=1"},
		{"visit www.example.com today", "www.example.com"},
		{"(http://x.io/path)", "http://x.io/path"},
		{"no link here", ""},
	}
	for _, tc := range testCases {
		if got := FindURL(tc.input); got != tc.expected {
			t.Errorf("FindURL(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
