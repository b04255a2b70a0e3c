package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/qbank/internal/assets"
	"github.com/backmassage/qbank/internal/bank"
	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/csvtable"
	"github.com/backmassage/qbank/internal/logging"
	"github.com/backmassage/qbank/internal/metadata"
)

// Result is one in-memory build.
type Result struct {
	Catalog        *assets.Catalog
	Rich           *metadata.RichTable
	Overrides      []metadata.OverrideRow
	RichFound      bool
	OverridesFound bool

	Questions []bank.Question
	Merge     bank.MergeReport
	Override  bank.OverrideReport
	Defaulted int
}

// Build discovers the image tree, reads both tables, and assembles the
// bank. Only a traversal failure or an unreadable table is an error; absent
// tables are fine.
func Build(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Result, error) {
	var (
		paths              []string
		richRows, ovRows   []csvtable.Row
		richFound, ovFound bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		p, err := assets.Discover(cfg.ProjectDir, cfg.ImageDir)
		if err != nil {
			return fmt.Errorf("discover images: %w", err)
		}
		paths = p
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rows, found, err := csvtable.ReadFile(cfg.Resolve(cfg.AnswersCSV))
		if err != nil {
			return fmt.Errorf("answers table: %w", err)
		}
		richRows, richFound = rows, found
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rows, found, err := csvtable.ReadFile(cfg.Resolve(cfg.OverridesCSV))
		if err != nil {
			return fmt.Errorf("overrides table: %w", err)
		}
		ovRows, ovFound = rows, found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Catalog:        assets.Classify(paths, assets.OptionsFromConfig(cfg)),
		Rich:           metadata.LoadRich(richRows),
		Overrides:      metadata.LoadOverrides(ovRows),
		RichFound:      richFound,
		OverridesFound: ovFound,
	}
	logInputs(cfg, log, res)

	res.Questions, res.Merge = bank.Assemble(res.Catalog, res.Rich, bank.OptionsFromConfig(cfg))
	res.Override = bank.ApplyOverrides(res.Questions, res.Overrides)
	for _, m := range res.Override.Mismatched {
		log.Warn("Override row %d (%s): %d answers for %d targets, skipped", m.Line, m.Spec, m.Answers, m.Targets)
	}
	log.Info("Overrides applied: %d", res.Override.Applied)

	res.Defaulted = bank.Finalize(res.Questions, cfg.DefaultAnswer)
	if res.Defaulted > 0 {
		log.Debug("Default answer %d used for %d question(s)", cfg.DefaultAnswer, res.Defaulted)
	}
	return res, nil
}

func logInputs(cfg *config.Config, log *logging.Logger, res *Result) {
	cat := res.Catalog
	log.Info("Found %d question image(s), %d solution image(s) in %s",
		len(cat.Questions), len(cat.Solutions), cfg.ImageDir)
	if n := len(cat.Skipped); n > 0 {
		log.Warn("%d image(s) do not match %s<number> and were skipped (use --naming loose or qbank rename)",
			n, cfg.QuestionPrefix)
		for _, p := range cat.Skipped {
			log.Debug("  skipped %s", p)
		}
	}
	if res.RichFound {
		log.Info("Answers table: %d row(s) from %s", len(res.Rich.Rows), cfg.AnswersCSV)
	} else {
		log.Debug("No answers table at %s", cfg.AnswersCSV)
	}
	if res.OverridesFound {
		log.Info("Overrides table: %d row(s) from %s", len(res.Overrides), cfg.OverridesCSV)
	} else {
		log.Debug("No overrides table at %s", cfg.OverridesCSV)
	}
}
