// Package bank assembles question records from the asset catalog and the
// metadata tables, resolves answer overrides, and serializes the bank.
//
// The stages run in a fixed order: Assemble, ApplyOverrides, Finalize, then
// Encode or WriteFile. Records are not touched after Finalize.
package bank

import "fmt"

// Question is one output record. Field order is the serialized order.
type Question struct {
	ID             string   `json:"id"`
	Section        string   `json:"section"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answer         int      `json:"answer"`
	SolutionImages []string `json:"solution_images,omitempty"`
	SolutionVideos []string `json:"solution_videos,omitempty"`
	SolutionHTML   string   `json:"solution_html,omitempty"`

	// AssetPath is the root-relative image this record was built from. The
	// override index is keyed on Base, never on Text.
	AssetPath string `json:"-"`
	Base      string `json:"-"`

	answerSet bool
}

// DefaultOptions returns a fresh copy of the fixed option labels.
func DefaultOptions() []string {
	return []string{"a", "b", "c", "d"}
}

// HasAnswer reports whether some source has supplied the answer.
func (q *Question) HasAnswer() bool { return q.answerSet }

// SetAnswer records an answer from any source.
func (q *Question) SetAnswer(n int) {
	q.Answer = n
	q.answerSet = true
}

// ImageTag renders the fixed question fragment for an image path.
func ImageTag(assetPath string) string {
	return fmt.Sprintf(`<img src="./%s" style="max-width:100%%;height:auto;">`, assetPath)
}

// firstNonEmpty returns the first non-empty candidate. Candidates are listed
// in precedence order at each call site.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
