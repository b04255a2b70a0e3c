package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/qbank/internal/config"
	"github.com/backmassage/qbank/internal/pipeline"
	"github.com/backmassage/qbank/internal/term"
)

func TestPrintSummary_Plain(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintSummary(&buf, pipeline.RunStats{
		Questions:        12,
		Sections:         2,
		Solutions:        5,
		RichRows:         4,
		RichMatched:      3,
		OverrideRows:     2,
		OverridesApplied: 7,
		Mismatched:       1,
		Defaulted:        2,
		Digest:           "0123456789abcdef",
		BytesWritten:     2048,
		Elapsed:          1500 * time.Millisecond,
	}, false)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== Summary ===\n"))
	assert.Contains(t, out, "Questions        12\n")
	assert.Contains(t, out, "Overrides        2 row(s), 7 applied")
	assert.Contains(t, out, "Mismatched rows  1")
	assert.Contains(t, out, "Output           2.0 KiB")
	assert.Contains(t, out, "Version          0123456789ab")
	assert.NotContains(t, out, "Skipped images")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintSummary_DryRun(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintSummary(&buf, pipeline.RunStats{Skipped: 3}, true)
	out := buf.String()
	assert.Contains(t, out, "dry run, nothing written")
	assert.Contains(t, out, "Skipped images   3")
	assert.NotContains(t, out, "Version")
}

func TestPrintBanner(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, banner+"\n", buf.String())
}
