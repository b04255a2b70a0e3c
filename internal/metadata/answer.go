// Package metadata decodes the two hand-maintained tables: the rich table
// (per-question section, text, explanation, media) and the override table
// (answers only, addressed by id or by an expandable file spec).
package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

// NumOptions is the fixed number of answer options per question.
const NumOptions = 4

var reAnswerSep = regexp.MustCompile(`[,;\s]+`)

// ToIndex decodes an answer cell into a 0-based option index. Letters a-d
// (any case) map to 0-3. Numbers 0-3 are taken as-is, so "3" is 3; only 4
// falls through to the 1-based reading and maps to 3. Anything else has no
// value.
func ToIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if len(s) == 1 {
		if c := s[0] | 0x20; c >= 'a' && c <= 'd' {
			return int(c - 'a'), true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch {
	case n >= 0 && n < NumOptions:
		return n, true
	case n == NumOptions:
		return n - 1, true
	}
	return 0, false
}

// DecodeAnswers splits a sequence cell ("a,b;3 d") and decodes each entry.
// Entries with no value are dropped.
func DecodeAnswers(s string) []int {
	var out []int
	for _, part := range reAnswerSep.Split(strings.TrimSpace(s), -1) {
		if v, ok := ToIndex(part); ok {
			out = append(out, v)
		}
	}
	return out
}
