package common

import (
	"testing"
)

func TestFormatVoteBar(t *testing.T) {
	tests := []struct {
		name     string
		votes    int
		total    int
		expected string
	}{
		{"no votes at all", 0, 0, "░░░░░░░░░░"},
		{"zero of some", 0, 4, "░░░░░░░░░░"},
		{"half", 2, 4, "█████░░░░░"},
		{"all", 4, 4, "██████████"},
		{"small share still visible", 1, 100, "█░░░░░░░░░"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatVoteBar(tt.votes, tt.total)
			if result != tt.expected {
				t.Errorf("FormatVoteBar(%d, %d) = %s; want %s", tt.votes, tt.total, result, tt.expected)
			}
		})
	}
}

func TestFormatVoteCount(t *testing.T) {
	tests := []struct {
		name     string
		votes    int
		total    int
		expected string
	}{
		{"empty poll", 0, 0, "0 (0%)"},
		{"minority", 1, 4, "1 (25%)"},
		{"unanimous", 3, 3, "3 (100%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatVoteCount(tt.votes, tt.total)
			if result != tt.expected {
				t.Errorf("FormatVoteCount(%d, %d) = %s; want %s", tt.votes, tt.total, result, tt.expected)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "entry", "entries"); got != "1 entry" {
		t.Errorf("Pluralize(1) = %s; want 1 entry", got)
	}
	if got := Pluralize(0, "entry", "entries"); got != "0 entries" {
		t.Errorf("Pluralize(0) = %s; want 0 entries", got)
	}
	if got := Pluralize(5, "vote", "votes"); got != "5 votes" {
		t.Errorf("Pluralize(5) = %s; want 5 votes", got)
	}
}
