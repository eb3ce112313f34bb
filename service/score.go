package service

import (
	"regexp"
	"strconv"
)

// scoreTagPattern is the v1 grading tag convention: the model is told to end
// its analysis with a line "SCORE: <n>". Looser "score: 87" mentions in prose
// also match; the last occurrence wins so the closing tag takes precedence.
var scoreTagPattern = regexp.MustCompile(`(?i)score[:\s]+(\d{1,3})`)

// ParseScore extracts the numeric grade from analysis text, clamped to 0-100.
// The second return is false when no tag parses; callers treat that as an
// expected condition, not an error.
func ParseScore(text string) (int, bool) {
	matches := scoreTagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	score, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	if score > 100 {
		score = 100
	}
	return score, true
}
