// Command qbank builds the question bank consumed by the quiz app.
//
// It scans the image tree, merges the answers and override tables, and
// writes questions.json (plus the optional version file and SQLite export).
// Subcommands run the renumbering pre-pass, diagnostics, and watch mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/display"
	"github.com/backmassage/qbank/internal/logging"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// errCheckFailed signals a check run with error-class findings. The
// findings have already been logged.
var errCheckFailed = errors.New("check found errors")

// app carries the state shared by every subcommand.
type app struct {
	cfg   config.Config
	flags *config.Flags
	log   *logging.Logger
	out   io.Writer
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: config.DefaultConfig(), out: os.Stdout}
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	if a.log != nil {
		defer a.log.Close()
	}
	if err == nil {
		return 0
	}
	if !errors.Is(err, errCheckFailed) {
		if a.log != nil {
			a.log.Error("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "qbank: %v\n", err)
		}
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "qbank [project_dir]",
		Short: "Build the quiz question bank from an image tree",
		Long: `qbank turns a directory of question images into questions.json.

Questions are images named <prefix><number> (default "vu"). Solution images
live in a "solutions" folder or carry a "-sol" marker. Answers, text and
explanations come from data/answers.csv; data/answers_min.csv overrides
answers in bulk. Running qbank without a subcommand builds the bank.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
		RunE: a.runBuild,
	}
	a.flags = config.RegisterFlags(root.PersistentFlags(), &a.cfg)

	root.AddCommand(
		&cobra.Command{
			Use:   "build [project_dir]",
			Short: "Build questions.json and the optional exports",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runBuild,
		},
		&cobra.Command{
			Use:   "rename [project_dir]",
			Short: "Rename staged images to the question naming convention",
			Long: `rename renumbers question images that do not follow <prefix><number>
after the highest number in use, then names solution images without a
"-sol" marker after the questions they are assigned to. Use --dry-run to
preview. Running it on a normalized tree does nothing.`,
			Args: cobra.MaximumNArgs(1),
			RunE: a.runRename,
		},
		&cobra.Command{
			Use:   "check [project_dir]",
			Short: "Build in memory and report problems; exits 1 on errors",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runCheck,
		},
		&cobra.Command{
			Use:   "watch [project_dir]",
			Short: "Rebuild whenever images or tables change",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runWatch,
		},
	)
	return root
}

// setup resolves the configuration (defaults, YAML file, flags) and opens
// the logger. Errors here are printed to stderr since no logger exists yet.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.flags.Finalize(cmd.Flags(), args); err != nil {
		return err
	}
	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return err
	}
	a.log = log
	a.out = cmd.OutOrStdout()
	display.PrintBanner(a.out)
	return nil
}
