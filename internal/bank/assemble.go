package bank

import (
	"sort"

	"github.com/microcosm-cc/bluemonday"

	"github.com/backmassage/qbank/internal/assets"
	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/metadata"
	"github.com/backmassage/qbank/internal/naming"
)

// Options controls record assembly.
type Options struct {
	IDPrefix       string // "type2-"
	DefaultSection string // "type 2"
	SanitizeHTML   bool   // clean authored text/explain cells
}

// OptionsFromConfig copies the relevant fields out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		IDPrefix:       cfg.IDPrefix,
		DefaultSection: cfg.DefaultSection,
		SanitizeHTML:   cfg.SanitizeHTML,
	}
}

// MergeReport describes how the rich table was used.
type MergeReport struct {
	Matched    int
	UnusedRich []*metadata.RichRow // rows that matched no question, in file order
}

// Assemble builds one record per question asset, ordered naturally by asset
// path. Answers come only from the rich table here; defaults are injected by
// Finalize after overrides.
func Assemble(cat *assets.Catalog, rich *metadata.RichTable, opts Options) ([]Question, MergeReport) {
	var policy *bluemonday.Policy
	if opts.SanitizeHTML {
		policy = bluemonday.UGCPolicy()
	}
	clean := func(s string) string {
		if policy == nil || s == "" {
			return s
		}
		return policy.Sanitize(s)
	}

	var report MergeReport
	used := make(map[*metadata.RichRow]bool)
	qs := make([]Question, 0, len(cat.Questions))

	for _, a := range cat.Questions {
		id := opts.IDPrefix + a.Base
		row := rich.Lookup(id, a.Bare)
		if row == nil {
			row = &metadata.RichRow{}
		} else {
			used[row] = true
			report.Matched++
		}

		q := Question{
			ID:        firstNonEmpty(row.ID, id),
			Section:   firstNonEmpty(row.Section, a.Section, opts.DefaultSection),
			Text:      firstNonEmpty(clean(row.Text), ImageTag(a.Path)),
			Options:   DefaultOptions(),
			AssetPath: a.Path,
			Base:      a.Base,
		}
		if row.HasAnswer {
			q.SetAnswer(row.Answer)
		}

		images := cat.SolutionsFor(a.Base)
		for _, ref := range row.SolutionImages {
			if ref = assets.NormalizeRef(ref); ref != "" {
				images = append(images, ref)
			}
		}
		q.SolutionImages = images
		if len(row.VideoLinks) > 0 {
			q.SolutionVideos = append([]string(nil), row.VideoLinks...)
		}
		q.SolutionHTML = clean(row.Explain)

		qs = append(qs, q)
	}

	sort.SliceStable(qs, func(i, j int) bool {
		return naming.NaturalLess(qs[i].AssetPath, qs[j].AssetPath)
	})

	if rich != nil {
		for _, r := range rich.Rows {
			if !used[r] && !shadowed(rich, r) {
				report.UnusedRich = append(report.UnusedRich, r)
			}
		}
	}
	return qs, report
}

// shadowed reports whether a later row replaced r under every key r has.
// Such rows were never reachable.
func shadowed(t *metadata.RichTable, r *metadata.RichRow) bool {
	if r.ID != "" && t.ByID[r.ID] == r {
		return false
	}
	if r.File != "" && t.ByFile[r.File] == r {
		return false
	}
	return true
}
