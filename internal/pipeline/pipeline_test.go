package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/logging"
	"github.com/backmassage/qbank/internal/store"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	write(t, root, rel, "")
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ProjectDir = root
	cfg.ColorMode = config.ColorNever
	return &cfg
}

type outRecord struct {
	ID             string   `json:"id"`
	Section        string   `json:"section"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Answer         int      `json:"answer"`
	SolutionImages []string `json:"solution_images"`
}

func readOutput(t *testing.T, path string) []outRecord {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []outRecord
	require.NoError(t, json.Unmarshal(b, &recs))
	return recs
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	touch(t, root, "images/vu2.jpg")
	touch(t, root, "images/solutions/vu1-sol.jpg")

	cfg := testConfig(root)
	stats, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Questions)
	assert.Equal(t, 1, stats.Solutions)
	assert.Equal(t, 2, stats.Defaulted)
	assert.NotEmpty(t, stats.Digest)

	recs := readOutput(t, filepath.Join(root, "questions.json"))
	require.Len(t, recs, 2)

	assert.Equal(t, "type2-vu1", recs[0].ID)
	assert.Equal(t, "type2-vu2", recs[1].ID)
	for _, r := range recs {
		assert.Equal(t, "type 2", r.Section)
		assert.Equal(t, 1, r.Answer)
		assert.Equal(t, []string{"a", "b", "c", "d"}, r.Options)
	}
	assert.Equal(t, []string{"./images/solutions/vu1-sol.jpg"}, recs[0].SolutionImages)
	assert.Nil(t, recs[1].SolutionImages)
	assert.Equal(t, `<img src="./images/vu2.jpg" style="max-width:100%;height:auto;">`, recs[1].Text)
}

func TestRun_NonCanonicalImageDir(t *testing.T) {
	for _, dir := range []string{"images", "./images", "images/."} {
		t.Run(dir, func(t *testing.T) {
			root := t.TempDir()
			touch(t, root, "images/vu1.jpg")
			touch(t, root, "images/Type 1/vu2.jpg")

			cfg := testConfig(root)
			cfg.ImageDir = dir
			require.NoError(t, cfg.Validate())
			_, err := Run(context.Background(), cfg, logging.Nop())
			require.NoError(t, err)

			recs := readOutput(t, filepath.Join(root, "questions.json"))
			require.Len(t, recs, 2)
			assert.Equal(t, "type2-vu2", recs[0].ID)
			assert.Equal(t, "Type 1", recs[0].Section)
			assert.Equal(t, "type2-vu1", recs[1].ID)
			assert.Equal(t, "type 2", recs[1].Section)
			assert.Equal(t, `<img src="./images/vu1.jpg" style="max-width:100%;height:auto;">`, recs[1].Text)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"images/vu10.jpg", "images/vu9.png", "images/Type_1/vu3.jpg", "images/solutions/vu9-sol-2.jpg", "images/solutions/vu9-sol.jpg"} {
		touch(t, root, p)
	}
	write(t, root, "data/answers.csv", "file,section,explain\nvu9,Frames,<p>x & y</p>\n")
	write(t, root, "data/answers_min.csv", "file,answers\nvu9..vu10,\"a,d\"\n")

	cfg := testConfig(root)
	out := filepath.Join(root, "questions.json")

	s1, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	b1, err := os.ReadFile(out)
	require.NoError(t, err)

	s2, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	b2, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, s1.Digest, s2.Digest)
	assert.Equal(t, 2, s1.OverridesApplied)
	assert.Contains(t, string(b1), "<p>x & y</p>")
}

func TestRun_Precedence(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	touch(t, root, "images/Type 1/vu2.jpg")
	touch(t, root, "images/vu3.jpg")
	write(t, root, "data/answers.csv", "id,section,answer\ntype2-vu1,Beams,\n")
	write(t, root, "data/answers_min.csv", "file,answer\nvu3,a\nvu3,c\nvu1,d\n")

	cfg := testConfig(root)
	_, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	recs := readOutput(t, filepath.Join(root, "questions.json"))
	got := map[string]outRecord{}
	for _, r := range recs {
		got[r.ID] = r
	}
	assert.Equal(t, "Beams", got["type2-vu1"].Section)
	assert.Equal(t, 3, got["type2-vu1"].Answer)
	assert.Equal(t, "Type 1", got["type2-vu2"].Section)
	assert.Equal(t, "type 2", got["type2-vu3"].Section)
	assert.Equal(t, 2, got["type2-vu3"].Answer)
}

func TestRun_MissingImageRoot(t *testing.T) {
	cfg := testConfig(t.TempDir())
	_, err := Run(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discover images")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_OutputInsideImages(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	cfg := testConfig(root)
	cfg.OutputPath = "images/questions.json"
	_, err := Run(context.Background(), cfg, logging.Nop())
	assert.ErrorIs(t, err, config.ErrOutputInsideTree)
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	cfg := testConfig(root)
	cfg.DryRun = true
	cfg.VersionFile = "version.json"
	cfg.SQLitePath = "bank.db"

	stats, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.NotEmpty(t, stats.Digest)
	assert.Zero(t, stats.BytesWritten)
	for _, f := range []string{"questions.json", "version.json", "bank.db"} {
		_, err := os.Stat(filepath.Join(root, f))
		assert.ErrorIs(t, err, os.ErrNotExist, f)
	}
}

func TestRun_VersionAndSQLite(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	touch(t, root, "images/solutions/vu1-sol.jpg")
	cfg := testConfig(root)
	cfg.VersionFile = "public/version.json"
	cfg.SQLitePath = "build/bank.db"

	stats, err := Run(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(root, "public", "version.json"))
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal(b, &info))
	assert.Equal(t, stats.Digest, info.SHA256)
	assert.Equal(t, stats.Digest[:12], info.Version)
	assert.Equal(t, 1, info.Questions)

	s, err := store.Open(filepath.Join(root, "build", "bank.db"))
	require.NoError(t, err)
	defer s.Close()
	qs, err := s.Questions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, []string{"./images/solutions/vu1-sol.jpg"}, qs[0].SolutionImages)
	d, err := s.Digest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Digest, d)
}

func TestBuild_LogsOverrideMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	touch(t, root, "images/vu2.jpg")
	touch(t, root, "images/IMG_0042.jpg")
	write(t, root, "data/answers_min.csv", "file,answers\nvu1..vu2,a\n")

	core, logs := observer.New(zapcore.DebugLevel)
	res, err := Build(context.Background(), testConfig(root), logging.New(core))
	require.NoError(t, err)

	require.Len(t, res.Override.Mismatched, 1)
	assert.Equal(t, 1, logs.FilterMessageSnippet("1 answers for 2 targets").Len())
	assert.Equal(t, 1, logs.FilterMessage("Overrides applied: 0").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("do not match vu<number>").Len())
	assert.Equal(t, []string{"images/IMG_0042.jpg"}, res.Catalog.Skipped)
}

func TestBuild_Cancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "images/vu1.jpg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, testConfig(root), logging.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}
