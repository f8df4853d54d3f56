package study

import (
	"testing"

	"pagemark-backend/internal/models"
)

func TestResolveChapter(t *testing.T) {
	chapters := []models.Chapter{
		{Title: "Intro", StartPage: 1, EndPage: 10},
		{Title: "Body", StartPage: 11, EndPage: 40},
		{Title: "Appendix", StartPage: 41, EndPage: 45},
	}

	tests := []struct {
		name     string
		page     int
		expected string
		found    bool
	}{
		{"start of first chapter", 1, "Intro", true},
		{"inside first chapter", 3, "Intro", true},
		{"boundary end page", 10, "Intro", true},
		{"boundary start page", 11, "Body", true},
		{"inside second chapter", 21, "Body", true},
		{"last chapter", 45, "Appendix", true},
		{"past the last chapter", 50, "", false},
		{"page zero", 0, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			title, ok := ResolveChapter(tc.page, chapters)
			if ok != tc.found {
				t.Fatalf("Expected found=%v, got %v", tc.found, ok)
			}
			if title != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, title)
			}
		})
	}
}

func TestResolveChapter_OverlapFirstMatchWins(t *testing.T) {
	chapters := []models.Chapter{
		{Title: "First", StartPage: 1, EndPage: 20},
		{Title: "Second", StartPage: 10, EndPage: 30},
	}

	title, ok := ResolveChapter(15, chapters)
	if !ok {
		t.Fatal("Expected a match for page 15")
	}
	if title != "First" {
		t.Errorf("Expected first listed chapter to win, got %q", title)
	}

	// Past the first range, the second still matches
	title, ok = ResolveChapter(25, chapters)
	if !ok || title != "Second" {
		t.Errorf("Expected Second for page 25, got %q (found=%v)", title, ok)
	}
}

func TestResolveChapter_Empty(t *testing.T) {
	if _, ok := ResolveChapter(5, nil); ok {
		t.Error("Expected no match with no chapters")
	}
	if _, ok := ResolveChapter(5, []models.Chapter{}); ok {
		t.Error("Expected no match with empty chapters")
	}
}
