package naming

import (
	"regexp"
	"strconv"
	"strings"
)

// SolutionMarker separates a question base from its solution suffix
// ("vu7-sol", "vu7-sol-2").
const SolutionMarker = "-sol"

// Convention matches normalized question bases of the form <prefix><digits>.
type Convention struct {
	Prefix string
	re     *regexp.Regexp
	tagged *regexp.Regexp
}

// NewConvention compiles the convention for prefix. The match is
// case-insensitive.
func NewConvention(prefix string) *Convention {
	p := regexp.QuoteMeta(strings.ToLower(prefix))
	return &Convention{
		Prefix: strings.ToLower(prefix),
		re:     regexp.MustCompile(`(?i)^` + p + `(\d+)$`),
		tagged: regexp.MustCompile(`(?i)^type\d+-` + p + `(\d+)$`),
	}
}

// Match reports whether base is a normalized question base.
func (c *Convention) Match(base string) bool {
	return c.re.MatchString(base)
}

// MatchTagged also accepts a leading "typeN-" tag ("type2-vu5"). Files named
// that way are left alone by the renumbering pass.
func (c *Convention) MatchTagged(base string) bool {
	return c.re.MatchString(base) || c.tagged.MatchString(base)
}

// Number returns the numeric part of a normalized base.
func (c *Convention) Number(base string) (int, bool) {
	m := c.re.FindStringSubmatch(base)
	if m == nil {
		if m = c.tagged.FindStringSubmatch(base); m == nil {
			return 0, false
		}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Name builds the normalized base for n.
func (c *Convention) Name(n int) string {
	return c.Prefix + strconv.Itoa(n)
}

// HasSolutionMarker reports whether base already carries a "-sol" suffix
// ("-sol" at the end or "-sol-" followed by a counter).
func HasSolutionMarker(base string) bool {
	b := strings.ToLower(base)
	return strings.HasSuffix(b, SolutionMarker) || strings.Contains(b, SolutionMarker+"-")
}

// IsSolutionOf reports whether solutionBase belongs to questionBase. The
// match is boundary safe: "vu70-sol" does not belong to "vu7".
func IsSolutionOf(solutionBase, questionBase string) bool {
	return strings.HasPrefix(strings.ToLower(solutionBase), strings.ToLower(questionBase)+SolutionMarker)
}

// SolutionName returns the conventional solution base for the n-th (0-based)
// solution of questionBase: "vu7-sol", "vu7-sol-2", ...
func SolutionName(questionBase string, n int) string {
	if n == 0 {
		return questionBase + SolutionMarker
	}
	return questionBase + SolutionMarker + "-" + strconv.Itoa(n+1)
}
