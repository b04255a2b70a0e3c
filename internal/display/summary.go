package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/qbank/internal/pipeline"
	"github.com/backmassage/qbank/internal/term"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

type row struct {
	label string
	value string
	warn  bool
}

func summaryRows(s pipeline.RunStats, dryRun bool) []row {
	rows := []row{
		{label: "Questions", value: fmt.Sprint(s.Questions)},
		{label: "Sections", value: fmt.Sprint(s.Sections)},
		{label: "Solution images", value: fmt.Sprint(s.Solutions)},
		{label: "Answers table", value: fmt.Sprintf("%d row(s), %d matched", s.RichRows, s.RichMatched)},
		{label: "Overrides", value: fmt.Sprintf("%d row(s), %d applied", s.OverrideRows, s.OverridesApplied)},
		{label: "Default answers", value: fmt.Sprint(s.Defaulted)},
	}
	if s.Mismatched > 0 {
		rows = append(rows, row{label: "Mismatched rows", value: fmt.Sprint(s.Mismatched), warn: true})
	}
	if s.Skipped > 0 {
		rows = append(rows, row{label: "Skipped images", value: fmt.Sprint(s.Skipped), warn: true})
	}
	if dryRun {
		rows = append(rows, row{label: "Output", value: "dry run, nothing written"})
	} else {
		rows = append(rows, row{label: "Output", value: FormatBytes(s.BytesWritten)})
	}
	if len(s.Digest) >= 12 {
		rows = append(rows, row{label: "Version", value: s.Digest[:12]})
	}
	rows = append(rows, row{label: "Elapsed", value: FormatDuration(s.Elapsed)})
	return rows
}

// PrintSummary writes the end-of-run summary for s.
func PrintSummary(w io.Writer, s pipeline.RunStats, dryRun bool) {
	rows := summaryRows(s, dryRun)
	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}

	styled := term.Enabled()
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := fmt.Sprintf("%-*s", width, r.label)
		value := r.value
		if styled {
			label = labelStyle.Render(label)
			if r.warn {
				value = warnStyle.Render(value)
			} else {
				value = valueStyle.Render(value)
			}
		}
		lines = append(lines, label+"  "+value)
	}
	body := strings.Join(lines, "\n")

	if styled {
		fmt.Fprintln(w, boxStyle.Render(body))
		return
	}
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintln(w, body)
}
