package assets

import (
	"strings"

	"github.com/backmassage/qbank/internal/naming"
)

// Catalog is the classified image set of one run. It is built once and not
// modified afterwards.
type Catalog struct {
	Questions []Asset // natural order of Path
	Solutions []Asset // natural order of Base, then Path
	BySection map[string][]Asset
	Skipped   []string // question-folder images rejected by the naming convention
}

// SolutionsFor returns the solution images that belong to questionBase by
// convention ("vu12-sol", "vu12-sol-2", ...), as "./"-prefixed references.
// No match yields nil.
func (c *Catalog) SolutionsFor(questionBase string) []string {
	var out []string
	for _, s := range c.Solutions {
		if naming.IsSolutionOf(s.Base, questionBase) {
			out = append(out, "./"+s.Path)
		}
	}
	return out
}

// NormalizeRef makes a rich-table image reference root relative: anything
// not starting with "./" or "/" gets a "./" prefix.
func NormalizeRef(ref string) string {
	ref = naming.NormalizePath(strings.TrimSpace(ref))
	if ref == "" || strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return "./" + ref
}
