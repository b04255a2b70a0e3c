// Package assets turns the discovered image tree into a catalog of question
// and solution images: classification, section inference, and pairing of
// solutions to questions by filename convention.
package assets

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/naming"
)

var reSectionSep = regexp.MustCompile(`[_-]+`)

// Options controls classification.
type Options struct {
	ImageDir    string // image root, relative to the project ("images")
	SolutionDir string // reserved folder name ("solutions")
	Prefix      string // question base prefix for the strict convention ("vu")
	Naming      config.NamingMode
}

// OptionsFromConfig copies the relevant fields out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ImageDir:    cfg.ImageDir,
		SolutionDir: cfg.SolutionDirName,
		Prefix:      cfg.QuestionPrefix,
		Naming:      cfg.Naming,
	}
}

// Asset is one discovered image.
type Asset struct {
	Path     string // root-relative, forward slashes
	Base     string // lower-cased, extension stripped
	Bare     string // filename without extension, case preserved
	Solution bool
	Section  string
}

// Classify keeps the image paths and splits them into questions and
// solutions. In strict naming mode only question images whose base matches
// <prefix><digits> are kept; the rest are reported in Catalog.Skipped.
func Classify(paths []string, opts Options) *Catalog {
	conv := naming.NewConvention(opts.Prefix)
	c := &Catalog{BySection: make(map[string][]Asset)}
	for _, raw := range paths {
		p := naming.NormalizePath(raw)
		if !naming.IsImage(p) {
			continue
		}
		a := Asset{
			Path:     p,
			Base:     naming.BaseIdentifier(p),
			Bare:     naming.BareName(p),
			Solution: IsSolutionPath(p, opts),
		}
		if a.Solution {
			c.Solutions = append(c.Solutions, a)
			continue
		}
		if opts.Naming != config.NamingLoose && !conv.Match(a.Base) {
			c.Skipped = append(c.Skipped, p)
			continue
		}
		a.Section = SectionOf(p, opts)
		c.Questions = append(c.Questions, a)
	}

	sort.SliceStable(c.Questions, func(i, j int) bool {
		return naming.NaturalLess(c.Questions[i].Path, c.Questions[j].Path)
	})
	sort.SliceStable(c.Solutions, func(i, j int) bool {
		a, b := c.Solutions[i], c.Solutions[j]
		if cmp := naming.NaturalCompare(a.Base, b.Base); cmp != 0 {
			return cmp < 0
		}
		return naming.NaturalLess(a.Path, b.Path)
	})
	for _, q := range c.Questions {
		c.BySection[q.Section] = append(c.BySection[q.Section], q)
	}
	return c
}

// relSegments returns the segments of p below the image root.
func relSegments(p string, opts Options) []string {
	p = naming.NormalizePath(p)
	root := strings.Trim(path.Clean(naming.NormalizePath(opts.ImageDir)), "/")
	if root != "" && root != "." {
		lp, lr := strings.ToLower(p), strings.ToLower(root)+"/"
		if strings.HasPrefix(lp, lr) {
			p = p[len(lr):]
		}
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// IsSolutionPath reports whether any directory below the image root is the
// reserved solutions folder.
func IsSolutionPath(p string, opts Options) bool {
	segs := relSegments(p, opts)
	for _, s := range segs[:len(segs)-1] {
		if strings.EqualFold(s, opts.SolutionDir) {
			return true
		}
	}
	return false
}

// SectionOf derives a section label from the first folder below the image
// root: "images/Type_1/vu1.jpg" -> "Type 1". Files directly in the root and
// files in the solutions folder have no section.
func SectionOf(p string, opts Options) string {
	segs := relSegments(p, opts)
	if len(segs) < 2 {
		return ""
	}
	first := segs[0]
	if first == "" || strings.EqualFold(first, opts.SolutionDir) {
		return ""
	}
	return strings.TrimSpace(reSectionSep.ReplaceAllString(first, " "))
}
