// Package renumber is the optional pre-pass that renames staged images to
// the question naming convention. It is never part of a build: it mutates
// the image tree, so it runs only from the rename command.
//
// Planning is pure and idempotent: a tree that is already normalized plans
// no moves.
package renumber

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/qbank/internal/assets"
	"github.com/backmassage/qbank/internal/naming"
)

// ErrTargetExists is returned by Apply when a move would overwrite a file.
var ErrTargetExists = errors.New("rename target already exists")

// Logger is the subset of logging.Logger used here.
type Logger interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
}

// Move is one planned rename of root-relative, forward-slash paths.
type Move struct {
	From string
	To   string
}

type planner struct {
	opts  assets.Options
	conv  *naming.Convention
	taken map[string]bool // lower-cased dir/base of every name in use
	moves []Move
}

func key(dir, base string) string {
	return strings.ToLower(dir + "/" + base)
}

func splitName(p string) (dir, base, ext string) {
	dir, file := path.Split(p)
	dir = strings.TrimSuffix(dir, "/")
	ext = path.Ext(file)
	return dir, strings.TrimSuffix(file, ext), strings.ToLower(ext)
}

// Plan computes the renames for the image paths in paths (root relative, as
// returned by assets.Discover).
//
// Question images whose base is not <prefix><n> get the next free numbers
// after the current maximum, in natural path order, keeping their directory
// and lower-casing the extension. Their existing "-sol" images follow the
// new base. Solution images without a "-sol" marker are then dealt out
// round-robin over the question bases in numeric order.
func Plan(paths []string, opts assets.Options) []Move {
	p := &planner{
		opts:  opts,
		conv:  naming.NewConvention(opts.Prefix),
		taken: make(map[string]bool),
	}

	var questions, solutions []string
	for _, raw := range paths {
		f := naming.NormalizePath(raw)
		if !naming.IsImage(f) {
			continue
		}
		dir, base, _ := splitName(f)
		p.taken[key(dir, base)] = true
		if assets.IsSolutionPath(f, opts) {
			solutions = append(solutions, f)
		} else {
			questions = append(questions, f)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return naming.NaturalLess(questions[i], questions[j]) })
	sort.Slice(solutions, func(i, j int) bool {
		if c := naming.NaturalCompare(naming.BaseIdentifier(solutions[i]), naming.BaseIdentifier(solutions[j])); c != 0 {
			return c < 0
		}
		return naming.NaturalLess(solutions[i], solutions[j])
	})

	r := p.planQuestions(questions)
	solutions = p.followRenames(solutions, r)
	p.planOrphans(solutions, p.questionBases(questions, r))
	return p.moves
}

// renames records the question renames of one plan.
type renames struct {
	byPath map[string]string // question path -> new base
	byBase map[string]string // old lower-cased base -> new base
	shared map[string]bool   // old bases renamed in more than one folder
}

// follow returns the new base for an old one, unless the old base was used
// by several renamed questions and cannot be attributed.
func (r renames) follow(old string) (string, bool) {
	if r.shared[old] {
		return "", false
	}
	nb, ok := r.byBase[old]
	return nb, ok
}

// planQuestions renames non-conforming question images.
func (p *planner) planQuestions(questions []string) renames {
	max := 0
	for _, q := range questions {
		if n, ok := p.conv.Number(naming.BaseIdentifier(q)); ok && n > max {
			max = n
		}
	}

	r := renames{
		byPath: make(map[string]string),
		byBase: make(map[string]string),
		shared: make(map[string]bool),
	}
	next := max + 1
	for _, q := range questions {
		if p.conv.MatchTagged(naming.BaseIdentifier(q)) {
			continue
		}
		dir, base, ext := splitName(q)
		for p.taken[key(dir, p.conv.Name(next))] {
			next++
		}
		nb := p.conv.Name(next)
		next++
		p.taken[key(dir, nb)] = true
		old := strings.ToLower(base)
		if _, dup := r.byBase[old]; dup {
			r.shared[old] = true
		}
		r.byBase[old] = nb
		r.byPath[q] = nb
		p.moves = append(p.moves, Move{From: q, To: join(dir, nb+ext)})
	}
	return r
}

// followRenames moves "<old>-sol*" images to "<new>-sol*" and returns the
// solution paths after those moves. Bases renamed in several folders are
// left alone.
func (p *planner) followRenames(solutions []string, r renames) []string {
	if len(r.byBase) == 0 {
		return solutions
	}
	out := make([]string, 0, len(solutions))
	for _, s := range solutions {
		dir, base, ext := splitName(s)
		lb := strings.ToLower(base)
		idx := strings.LastIndex(lb, naming.SolutionMarker)
		if idx <= 0 || !naming.HasSolutionMarker(lb) {
			out = append(out, s)
			continue
		}
		nb, ok := r.follow(lb[:idx])
		if !ok || p.taken[key(dir, nb+lb[idx:])] {
			out = append(out, s)
			continue
		}
		target := nb + lb[idx:]
		p.taken[key(dir, target)] = true
		to := join(dir, target+ext)
		p.moves = append(p.moves, Move{From: s, To: to})
		out = append(out, to)
	}
	return out
}

// questionBases lists conforming question bases after renames, ordered by
// number.
func (p *planner) questionBases(questions []string, r renames) []string {
	seen := make(map[string]bool)
	var bases []string
	for _, q := range questions {
		b := naming.BaseIdentifier(q)
		if nb, ok := r.byPath[q]; ok {
			b = nb
		}
		if !p.conv.MatchTagged(b) || seen[b] {
			continue
		}
		seen[b] = true
		bases = append(bases, b)
	}
	sort.SliceStable(bases, func(i, j int) bool {
		ni, _ := p.conv.Number(bases[i])
		nj, _ := p.conv.Number(bases[j])
		if ni != nj {
			return ni < nj
		}
		return bases[i] < bases[j]
	})
	return bases
}

// planOrphans names solution images that carry no "-sol" marker.
func (p *planner) planOrphans(solutions, bases []string) {
	if len(bases) == 0 {
		return
	}
	i := 0
	for _, s := range solutions {
		dir, base, ext := splitName(s)
		if naming.HasSolutionMarker(base) {
			continue
		}
		qb := bases[i%len(bases)]
		i++
		n := 0
		for p.taken[key(dir, naming.SolutionName(qb, n))] {
			n++
		}
		target := naming.SolutionName(qb, n)
		p.taken[key(dir, target)] = true
		p.moves = append(p.moves, Move{From: s, To: join(dir, target+ext)})
	}
}

func join(dir, file string) string {
	if dir == "" {
		return file
	}
	return dir + "/" + file
}

// Apply performs moves under root in order. Existing targets are never
// overwritten. In dry-run mode nothing is touched.
func Apply(root string, moves []Move, dryRun bool, log Logger) error {
	for _, m := range moves {
		if dryRun {
			log.Info("[DRY] Would rename %s -> %s", m.From, m.To)
			continue
		}
		from := filepath.Join(root, filepath.FromSlash(m.From))
		to := filepath.Join(root, filepath.FromSlash(m.To))
		if _, err := os.Lstat(to); err == nil {
			return fmt.Errorf("%w: %s", ErrTargetExists, m.To)
		}
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("rename %s: %w", m.From, err)
		}
		log.Info("Renamed %s -> %s", m.From, m.To)
	}
	if !dryRun && len(moves) > 0 {
		log.Success("Renamed %d file(s)", len(moves))
	}
	return nil
}
