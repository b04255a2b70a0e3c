// Package config holds runtime configuration: defaults, YAML file loading,
// environment overrides, CLI flag registration, and validation. Defaults match
// the layout the quiz app expects (images/, data/answers*.csv, questions.json).
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Enum types for validated string fields ---

// NamingMode selects which question images are promoted to questions.
type NamingMode string

const (
	NamingStrict NamingMode = "strict" // Only <prefix><digits> bases (default).
	NamingLoose  NamingMode = "loose"  // Every non-solution image.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultConfigFile is looked up inside the project directory when --config
// is not given.
const DefaultConfigFile = "qbank.yaml"

// Validation errors.
var (
	ErrInvalidNaming    = errors.New("invalid naming mode (use 'strict' or 'loose')")
	ErrInvalidColor     = errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	ErrInvalidAnswer    = errors.New("default answer must be between 0 and 3")
	ErrInvalidPrefix    = errors.New("question prefix must be letters only")
	ErrMissingImageDir  = errors.New("image directory must not be empty")
	ErrMissingOutput    = errors.New("output path must not be empty")
	ErrOutputInsideTree = errors.New("output must not be inside the image directory")
	ErrImageDirOutside  = errors.New("image directory must be inside the project directory")
)

var rePrefix = regexp.MustCompile(`^[A-Za-z]+$`)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [Load], then by CLI flags, and passed by pointer to
// packages that need it. Paths other than ProjectDir are relative to
// ProjectDir unless absolute.
type Config struct {
	// Layout.
	ProjectDir      string `yaml:"-"`             // Positional arg. Default: ".".
	ImageDir        string `yaml:"image_dir"`     // Default: "images".
	SolutionDirName string `yaml:"solution_dir"`  // Default: "solutions".
	OutputPath      string `yaml:"output"`        // Default: "questions.json".
	AnswersCSV      string `yaml:"answers_csv"`   // Rich table. Default: "data/answers.csv".
	OverridesCSV    string `yaml:"overrides_csv"` // Override table. Default: "data/answers_min.csv".
	SQLitePath      string `yaml:"sqlite"`        // Optional SQLite export.
	VersionFile     string `yaml:"version_file"`  // Optional digest stamp for cache busting.

	// Question naming and defaults.
	QuestionPrefix string     `yaml:"question_prefix"` // Default: "vu".
	IDPrefix       string     `yaml:"id_prefix"`       // Default: "type2-".
	DefaultSection string     `yaml:"default_section"` // Default: "type 2".
	DefaultAnswer  int        `yaml:"default_answer"`  // Default: 1 ("b").
	Naming         NamingMode `yaml:"naming"`          // Default: strict.
	SanitizeHTML   bool       `yaml:"sanitize_html"`   // Sanitize authored HTML cells.

	// Behavior.
	DryRun bool `yaml:"-"`

	// Display and logging.
	Verbose    bool      `yaml:"verbose"`
	ColorMode  ColorMode `yaml:"color"`
	LogFile    string    `yaml:"log_file"`
	ConfigFile string    `yaml:"-"` // --config value; empty means <project>/qbank.yaml.
}

// DefaultConfig returns a Config with all defaults.
func DefaultConfig() Config {
	return Config{
		ProjectDir:      ".",
		ImageDir:        "images",
		SolutionDirName: "solutions",
		OutputPath:      "questions.json",
		AnswersCSV:      "data/answers.csv",
		OverridesCSV:    "data/answers_min.csv",
		QuestionPrefix:  "vu",
		IDPrefix:        "type2-",
		DefaultSection:  "type 2",
		DefaultAnswer:   1,
		Naming:          NamingStrict,
		ColorMode:       ColorAuto,
	}
}

// Load overlays the YAML file at path onto cfg and applies environment
// overrides. A missing file is not an error: cfg keeps its current values.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnvOverrides()
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return nil
}

// applyEnvOverrides lets CI jobs relocate the image tree and output without
// editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("QBANK_IMAGE_DIR"); v != "" {
		c.ImageDir = v
	}
	if v := os.Getenv("QBANK_OUTPUT"); v != "" {
		c.OutputPath = v
	}
}

// ConfigPath returns the YAML file to load: --config when given, else
// qbank.yaml inside the project directory.
func (c *Config) ConfigPath() string {
	if c.ConfigFile != "" {
		return c.ConfigFile
	}
	return filepath.Join(c.ProjectDir, DefaultConfigFile)
}

// Resolve joins p onto ProjectDir unless p is empty or absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, the default answer, and required paths.
func (c *Config) Validate() error {
	switch c.Naming {
	case NamingStrict, NamingLoose:
		// valid
	default:
		return ErrInvalidNaming
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return ErrInvalidColor
	}

	if c.DefaultAnswer < 0 || c.DefaultAnswer > 3 {
		return fmt.Errorf("%w (got %d)", ErrInvalidAnswer, c.DefaultAnswer)
	}
	if c.Naming == NamingStrict && !rePrefix.MatchString(c.QuestionPrefix) {
		return fmt.Errorf("%w (got %q)", ErrInvalidPrefix, c.QuestionPrefix)
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		return ErrMissingImageDir
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return ErrMissingOutput
	}
	if c.SolutionDirName == "" {
		c.SolutionDirName = "solutions"
	}
	dir, err := c.projectRelative(c.ImageDir)
	if err != nil {
		return err
	}
	c.ImageDir = dir
	return nil
}

// projectRelative returns dir in canonical form ("./images/" and "images/."
// both become "images"). An absolute dir inside the project is made relative
// to it, since question records reference images from the project root.
func (c *Config) projectRelative(dir string) (string, error) {
	dir = filepath.Clean(dir)
	if filepath.IsAbs(dir) {
		project, err := filepath.Abs(c.ProjectDir)
		if err != nil {
			return "", fmt.Errorf("resolve project directory: %w", err)
		}
		rel, err := filepath.Rel(project, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrImageDirOutside, dir)
		}
		dir = rel
	}
	return path.Clean(filepath.ToSlash(dir)), nil
}

// ValidatePaths ensures the resolved output file is not inside the resolved
// image directory, so a rebuild never discovers or rewrites files in the
// asset tree. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(imageAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == imageAbs || strings.HasPrefix(outputAbs+sep, imageAbs+sep) {
		return ErrOutputInsideTree
	}
	return nil
}
