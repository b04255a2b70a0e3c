package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/qbank/internal/bank"
	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/logging"
	"github.com/backmassage/qbank/internal/store"
)

// VersionInfo is the content of the optional version file. The offline
// cache layer keys its cache name on Version.
type VersionInfo struct {
	Version   string `json:"version"`
	SHA256    string `json:"sha256"`
	Questions int    `json:"questions"`
}

// Run builds the bank and writes every configured output. The returned
// error is non-nil only for fatal conditions (unreadable image root or
// tables, write failures).
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	start := time.Now()
	outPath := cfg.Resolve(cfg.OutputPath)
	if err := checkOutputOutsideTree(cfg, outPath); err != nil {
		return RunStats{}, err
	}

	res, err := Build(ctx, cfg, log)
	if err != nil {
		return RunStats{}, err
	}
	stats := statsFrom(res)

	if len(res.Questions) == 0 {
		log.Warn("No questions found under %s", cfg.ImageDir)
	}

	var digest bank.Digest
	if cfg.DryRun {
		b, err := bank.Marshal(res.Questions)
		if err != nil {
			return stats, fmt.Errorf("encode questions: %w", err)
		}
		digest = bank.Sum(b)
		log.Success("[DRY] Would write %d question(s) to %s", len(res.Questions), cfg.OutputPath)
	} else {
		digest, err = bank.WriteFile(outPath, res.Questions)
		if err != nil {
			return stats, fmt.Errorf("write %s: %w", cfg.OutputPath, err)
		}
		stats.BytesWritten = digest.Size
		log.Success("Wrote %d question(s) to %s", len(res.Questions), cfg.OutputPath)
	}
	stats.Digest = digest.Hex

	if cfg.VersionFile != "" {
		if err := writeVersion(cfg, log, digest, len(res.Questions)); err != nil {
			return stats, err
		}
	}
	if cfg.SQLitePath != "" {
		if err := exportSQLite(ctx, cfg, log, res.Questions, digest); err != nil {
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// checkOutputOutsideTree rejects an output path inside the image tree.
func checkOutputOutsideTree(cfg *config.Config, outPath string) error {
	imageAbs, err := filepath.Abs(cfg.Resolve(cfg.ImageDir))
	if err != nil {
		return fmt.Errorf("resolve image directory: %w", err)
	}
	outputAbs, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	imageAbs = evalSymlinksIfExists(imageAbs)
	outputAbs = filepath.Join(evalSymlinksIfExists(filepath.Dir(outputAbs)), filepath.Base(outputAbs))
	return cfg.ValidatePaths(imageAbs, outputAbs)
}

func evalSymlinksIfExists(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}

func writeVersion(cfg *config.Config, log *logging.Logger, d bank.Digest, n int) error {
	info := VersionInfo{Version: d.Stamp(), SHA256: d.Hex, Questions: n}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode version: %w", err)
	}
	b = append(b, '\n')
	if cfg.DryRun {
		log.Success("[DRY] Would write version %s to %s", info.Version, cfg.VersionFile)
		return nil
	}
	if err := bank.WriteAtomic(cfg.Resolve(cfg.VersionFile), b); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	log.Info("Version %s written to %s", info.Version, cfg.VersionFile)
	return nil
}

func exportSQLite(ctx context.Context, cfg *config.Config, log *logging.Logger, qs []bank.Question, d bank.Digest) (err error) {
	if cfg.DryRun {
		log.Success("[DRY] Would export %d question(s) to %s", len(qs), cfg.SQLitePath)
		return nil
	}
	path := cfg.Resolve(cfg.SQLitePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	prev, err := s.Digest(ctx)
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	if prev == d.Hex {
		log.Debug("SQLite export %s is up to date", cfg.SQLitePath)
		return nil
	}
	if err := s.ReplaceQuestions(ctx, qs, d.Hex); err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	log.Info("Exported %d question(s) to %s", len(qs), cfg.SQLitePath)
	return nil
}
