package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxRangeLen caps range expansion; longer ranges are kept as literal tokens.
const MaxRangeLen = 10000

// Range patterns, checked in order. The prefix is lazy so that the digit run
// right before the separator is the start of the range. The second form lets
// the end repeat the prefix ("vu1..vu12"); the prefixes must then agree.
var (
	reRangeBare     = regexp.MustCompile(`^([a-z0-9_\-]*?)(\d+)(?:\.\.|-)(\d+)$`)
	reRangePrefixed = regexp.MustCompile(`^([a-z0-9_\-]*?)(\d+)(?:\.\.|-)([a-z0-9_\-]*?)(\d+)$`)
)

var reListSep = regexp.MustCompile(`[;,]`)

// SplitList splits s on commas and semicolons, trims each part, and drops
// empty parts.
func SplitList(s string) []string {
	var out []string
	for _, part := range reListSep.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ExpandToken expands a single file token into base identifiers.
//
//	"vu27"            -> [vu27]
//	"images/vu28.jpg" -> [vu28]
//	"vu1..vu12"       -> [vu1 vu2 ... vu12]
//	"vu1-3"           -> [vu1 vu2 vu3]
//	"vu03..01"        -> [vu03 vu02 vu01]
//
// Anything that is not a range comes back as a one-element slice.
func ExpandToken(tok string) []string {
	s := BaseIdentifier(tok)
	prefix, a, b, ok := matchRange(s)
	if !ok {
		return []string{s}
	}
	start, err1 := strconv.Atoi(a)
	end, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return []string{s}
	}

	step := 1
	n := end - start + 1
	if start > end {
		step = -1
		n = start - end + 1
	}
	if n > MaxRangeLen {
		return []string{s}
	}

	pad := 0
	if len(a) > 1 {
		pad = len(a)
	}
	out := make([]string, 0, n)
	for i := start; ; i += step {
		out = append(out, prefix+fmt.Sprintf("%0*d", pad, i))
		if i == end {
			break
		}
	}
	return out
}

// matchRange splits s into prefix, start digits and end digits.
func matchRange(s string) (prefix, start, end string, ok bool) {
	if m := reRangeBare.FindStringSubmatch(s); m != nil {
		return m[1], m[2], m[3], true
	}
	if m := reRangePrefixed.FindStringSubmatch(s); m != nil && m[3] == m[1] {
		return m[1], m[2], m[4], true
	}
	return "", "", "", false
}

// ExpandList expands a comma/semicolon separated spec, concatenating each
// token's expansion in order. Duplicates are kept.
func ExpandList(spec string) []string {
	var out []string
	for _, tok := range SplitList(spec) {
		out = append(out, ExpandToken(tok)...)
	}
	return out
}
