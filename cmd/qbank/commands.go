package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/backmassage/qbank/internal/assets"
	"github.com/backmassage/qbank/internal/check"
	"github.com/backmassage/qbank/internal/display"
	"github.com/backmassage/qbank/internal/pipeline"
	"github.com/backmassage/qbank/internal/renumber"
	"github.com/backmassage/qbank/internal/watch"
)

func (a *app) logHeader() {
	a.log.Info("=== qbank v%s (%s) ===", version, commit)
	a.log.Info("Project: %s", a.cfg.ProjectDir)
	a.log.Info("Images:  %s", a.cfg.ImageDir)
	a.log.Info("Out:     %s", a.cfg.OutputPath)
	if a.cfg.DryRun {
		a.log.Warn("DRY RUN: no files will be written")
	}
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	if err := check.CheckInputs(&a.cfg); err != nil {
		return err
	}
	a.logHeader()
	stats, err := pipeline.Run(cmd.Context(), &a.cfg, a.log)
	if err != nil {
		return err
	}
	display.PrintSummary(a.out, stats, a.cfg.DryRun)
	return nil
}

func (a *app) runRename(_ *cobra.Command, _ []string) error {
	if err := check.CheckInputs(&a.cfg); err != nil {
		return err
	}
	paths, err := assets.Discover(a.cfg.ProjectDir, a.cfg.ImageDir)
	if err != nil {
		return err
	}
	moves := renumber.Plan(paths, assets.OptionsFromConfig(&a.cfg))
	if len(moves) == 0 {
		a.log.Success("Nothing to rename; %d file(s) already follow %s<number>", len(paths), a.cfg.QuestionPrefix)
		return nil
	}
	a.log.Info("%d rename(s) planned", len(moves))
	return renumber.Apply(a.cfg.ProjectDir, moves, a.cfg.DryRun, a.log)
}

func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
	if err := check.CheckInputs(&a.cfg); err != nil {
		return err
	}
	res, err := pipeline.Build(cmd.Context(), &a.cfg, a.log)
	if err != nil {
		return err
	}
	if r := check.RunCheck(a.cfg.ProjectDir, res, a.log); !r.OK() {
		return errCheckFailed
	}
	return nil
}

func (a *app) runWatch(cmd *cobra.Command, _ []string) error {
	if err := check.CheckInputs(&a.cfg); err != nil {
		return err
	}
	a.logHeader()
	rebuild := func(ctx context.Context) error {
		stats, err := pipeline.Run(ctx, &a.cfg, a.log)
		if err != nil {
			return err
		}
		display.PrintSummary(a.out, stats, a.cfg.DryRun)
		return nil
	}

	var tables []string
	for _, p := range []string{a.cfg.AnswersCSV, a.cfg.OverridesCSV} {
		if p != "" {
			tables = append(tables, a.cfg.Resolve(p))
		}
	}
	w, err := watch.New(watch.Options{
		Roots: []string{a.cfg.Resolve(a.cfg.ImageDir)},
		Files: tables,
	}, rebuild, a.log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := rebuild(ctx); err != nil {
		a.log.Error("Initial build failed: %v", err)
	}
	a.log.Info("Watching for changes (Ctrl+C to stop)")
	if err := w.Run(ctx); err != nil {
		return err
	}
	st := w.Stats()
	a.log.Info("Stopped after %d rebuild(s), %d failed", st.Rebuilds, st.Failures)
	return nil
}
