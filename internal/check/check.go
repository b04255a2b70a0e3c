// Package check provides bank diagnostics (the check command) and the
// pre-build validation of the project layout (CheckInputs).
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/backmassage/qbank/internal/bank"
	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/pipeline"
)

// Sentinel errors returned by CheckInputs.
var (
	ErrImageDirNotFound = errors.New("image directory not found")
	ErrImageDirNotDir   = errors.New("image path is not a directory")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Finding kinds.
const (
	KindDuplicateID     = "duplicate-id"
	KindMissingImage    = "missing-image"
	KindMissingSolution = "missing-solution"
	KindUnusedRow       = "unused-row"
	KindMismatch        = "override-mismatch"
	KindSkippedImage    = "skipped-image"
)

// Finding is one diagnostic.
type Finding struct {
	Kind    string
	Subject string // question id, table row, or path
	Detail  string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.Subject, f.Detail)
}

// Report collects findings. Errors make the check fail; warnings do not.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no error-class finding exists.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// CheckInputs verifies that the image root exists and is a directory.
func CheckInputs(cfg *config.Config) error {
	p := cfg.Resolve(cfg.ImageDir)
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrImageDirNotFound, p)
		}
		return fmt.Errorf("stat %s: %w", p, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrImageDirNotDir, p)
	}
	return nil
}

// RunCheck inspects an in-memory build rooted at root and logs every
// finding. It never modifies anything.
func RunCheck(root string, res *pipeline.Result, log Logger) Report {
	log.Info("=== Bank Check ===")

	var r Report
	checkDuplicateIDs(res.Questions, &r)
	checkReferences(root, res.Questions, &r)
	checkTables(res, &r)

	for _, f := range r.Errors {
		log.Error("%s", f)
	}
	for _, f := range r.Warnings {
		log.Warn("%s", f)
	}
	if r.OK() {
		log.Success("%d question(s) checked, no errors (%d warning(s))", len(res.Questions), len(r.Warnings))
	} else {
		log.Error("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	}
	return r
}

func checkDuplicateIDs(qs []bank.Question, r *Report) {
	seen := make(map[string][]string)
	var order []string
	for _, q := range qs {
		if _, ok := seen[q.ID]; !ok {
			order = append(order, q.ID)
		}
		seen[q.ID] = append(seen[q.ID], q.AssetPath)
	}
	for _, id := range order {
		if paths := seen[id]; len(paths) > 1 {
			r.Errors = append(r.Errors, Finding{
				Kind:    KindDuplicateID,
				Subject: id,
				Detail:  "used by " + strings.Join(paths, ", "),
			})
		}
	}
}

// checkReferences verifies that every local image the bank points at exists:
// <img src> in authored HTML and every solution image.
func checkReferences(root string, qs []bank.Question, r *Report) {
	for _, q := range qs {
		for _, src := range append(ImageSources(q.Text), ImageSources(q.SolutionHTML)...) {
			if isLocal(src) && !exists(root, src) {
				r.Errors = append(r.Errors, Finding{Kind: KindMissingImage, Subject: q.ID, Detail: src})
			}
		}
		for _, img := range q.SolutionImages {
			if isLocal(img) && !exists(root, img) {
				r.Errors = append(r.Errors, Finding{Kind: KindMissingSolution, Subject: q.ID, Detail: img})
			}
		}
	}
}

func checkTables(res *pipeline.Result, r *Report) {
	for _, row := range res.Merge.UnusedRich {
		subject := row.ID
		if subject == "" {
			subject = row.File
		}
		r.Warnings = append(r.Warnings, Finding{
			Kind:    KindUnusedRow,
			Subject: fmt.Sprintf("answers row %d", row.Line),
			Detail:  subject + " matches no question",
		})
	}
	for _, m := range res.Override.Mismatched {
		r.Warnings = append(r.Warnings, Finding{
			Kind:    KindMismatch,
			Subject: fmt.Sprintf("overrides row %d", m.Line),
			Detail:  fmt.Sprintf("%s: %d answers for %d targets", m.Spec, m.Answers, m.Targets),
		})
	}
	skipped := append([]string(nil), res.Catalog.Skipped...)
	sort.Strings(skipped)
	for _, p := range skipped {
		r.Warnings = append(r.Warnings, Finding{
			Kind:    KindSkippedImage,
			Subject: p,
			Detail:  "does not follow the naming convention",
		})
	}
}

// ImageSources returns the src attribute of every <img> in fragment, in
// document order.
func ImageSources(fragment string) []string {
	if !strings.Contains(fragment, "<") {
		return nil
	}
	var out []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" && len(val) > 0 {
					out = append(out, string(val))
				}
			}
		}
	}
}

func isLocal(ref string) bool {
	l := strings.ToLower(ref)
	for _, p := range []string{"http:", "https:", "data:", "//"} {
		if strings.HasPrefix(l, p) {
			return false
		}
	}
	return ref != ""
}

func exists(root, ref string) bool {
	rel := strings.TrimLeft(strings.TrimPrefix(ref, "./"), "/")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
