package config

// This file implements CLI flag registration and the precedence rules between
// defaults, the YAML config file, and flags.
// Flags are grouped into layout, naming, behavior and display.
// Negated flags (e.g. --no-color) are applied after the YAML file so that an
// explicit flag always beats the file.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds flag values that are not bound directly to a Config field.
// These either invert a default or pick between two enum values.
type Flags struct {
	cfg        *Config
	forceColor bool
	noColor    bool
}

// RegisterFlags binds every qbank flag on fs to cfg. fs is normally the
// persistent flag set of the root command.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) *Flags {
	f := &Flags{cfg: cfg}
	defineLayoutFlags(fs, cfg)
	defineNamingFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, f)
	return f
}

// defineLayoutFlags registers --config, --images, --solutions-dir, --output,
// --answers, --overrides, --sqlite, --version-file.
func defineLayoutFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML config file (default: <project>/qbank.yaml)")
	fs.StringVar(&cfg.ImageDir, "images", cfg.ImageDir, "Image directory, relative to the project")
	fs.StringVar(&cfg.SolutionDirName, "solutions-dir", cfg.SolutionDirName, "Reserved folder name holding solution images")
	fs.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Output JSON file")
	fs.StringVar(&cfg.AnswersCSV, "answers", cfg.AnswersCSV, "Rich metadata CSV (optional)")
	fs.StringVar(&cfg.OverridesCSV, "overrides", cfg.OverridesCSV, "Quick answer override CSV (optional)")
	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "Also export the bank to this SQLite database")
	fs.StringVar(&cfg.VersionFile, "version-file", cfg.VersionFile, "Write the output digest to this file")
}

// defineNamingFlags registers --prefix, --id-prefix, --default-section,
// --default-answer, --naming, --sanitize-html.
func defineNamingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.QuestionPrefix, "prefix", cfg.QuestionPrefix, "Question filename prefix for strict naming")
	fs.StringVar(&cfg.IDPrefix, "id-prefix", cfg.IDPrefix, "Prefix for generated question ids")
	fs.StringVar(&cfg.DefaultSection, "default-section", cfg.DefaultSection, "Section used when neither CSV nor folder supplies one")
	fs.IntVar(&cfg.DefaultAnswer, "default-answer", cfg.DefaultAnswer, "Answer index (0-3) used when no source supplies one")
	fs.Var(&namingModeValue{&cfg.Naming}, "naming", "Question naming: strict | loose")
	fs.BoolVar(&cfg.SanitizeHTML, "sanitize-html", cfg.SanitizeHTML, "Sanitize authored HTML from the answers CSV")
}

// defineDisplayFlags registers --dry-run, --verbose, --color, --no-color, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, f *Flags) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not write or rename files")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// Finalize resolves the project directory from args, loads the YAML config
// file, re-applies every flag the user set explicitly (flags beat the file),
// applies negated flags, and validates the result.
func (f *Flags) Finalize(fs *pflag.FlagSet, args []string) error {
	cfg := f.cfg
	if len(args) > 1 {
		return fmt.Errorf("expected at most one project directory, got %d", len(args))
	}
	if len(args) == 1 {
		cfg.ProjectDir = NormalizeDirArg(args[0])
	}

	changed := make(map[string]string)
	fs.Visit(func(fl *pflag.Flag) {
		changed[fl.Name] = fl.Value.String()
	})

	if err := Load(cfg.ConfigPath(), cfg); err != nil {
		return err
	}

	for name, v := range changed {
		fl := fs.Lookup(name)
		if fl == nil {
			continue
		}
		if err := fl.Value.Set(v); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}

	f.applyNegatedFlags()
	return cfg.Validate()
}

// applyNegatedFlags copies negated flag values into cfg.
func (f *Flags) applyNegatedFlags() {
	if f.noColor {
		f.cfg.ColorMode = ColorNever
	} else if f.forceColor {
		f.cfg.ColorMode = ColorAlways
	}
}

// pflag.Value adapter so the NamingMode enum can be used with fs.Var.

type namingModeValue struct{ p *NamingMode }

func (n *namingModeValue) String() string { return string(*n.p) }
func (n *namingModeValue) Type() string   { return "mode" }
func (n *namingModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "strict":
		*n.p = NamingStrict
	case "loose":
		*n.p = NamingLoose
	default:
		return fmt.Errorf("invalid naming mode %q (use 'strict' or 'loose')", s)
	}
	return nil
}
