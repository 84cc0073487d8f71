// Package sentiment scores free text against two fixed word lists.
package sentiment

import "strings"

var (
	positive = []string{"good", "happy", "great", "love", "nice", "awesome", "energized"}
	negative = []string{"sad", "bad", "angry", "hate", "tired", "stressed", "lonely"}
)

// Score maps text to a value in [-1, 1] using case-insensitive substring
// membership: (positive hits − negative hits) / (total hits). When neither
// lexicon matches, the score is exactly 0. Pure and deterministic.
func Score(text string) float64 {
	lowered := strings.ToLower(text)

	var pos, neg int
	for _, w := range positive {
		if strings.Contains(lowered, w) {
			pos++
		}
	}
	for _, w := range negative {
		if strings.Contains(lowered, w) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}
