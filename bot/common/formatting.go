package common

import (
	"fmt"
	"strings"
)

const voteBarWidth = 10

// FormatVoteBar renders a fixed-width bar for one tally against the total
func FormatVoteBar(votes, total int) string {
	filled := 0
	if total > 0 {
		filled = votes * voteBarWidth / total
	}
	if votes > 0 && filled == 0 {
		filled = 1
	}

	var bar strings.Builder
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat("░", voteBarWidth-filled))
	return bar.String()
}

// FormatVoteCount renders a tally with its percentage share of the total
func FormatVoteCount(votes, total int) string {
	if total == 0 {
		return fmt.Sprintf("%d (0%%)", votes)
	}
	return fmt.Sprintf("%d (%d%%)", votes, votes*100/total)
}

// Pluralize picks the singular or plural noun form for a count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
