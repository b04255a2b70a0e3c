package bank

import (
	"github.com/backmassage/qbank/internal/metadata"
	"github.com/backmassage/qbank/internal/naming"
)

// Mismatch is an override row whose answers sequence did not line up with
// its expanded file spec. The row had no effect.
type Mismatch struct {
	Line    int
	Spec    string
	Targets int
	Answers int
}

// OverrideReport summarizes ApplyOverrides.
type OverrideReport struct {
	Applied    int // answer assignments that hit a record
	Mismatched []Mismatch
}

// ApplyOverrides applies override rows to qs strictly in row order, so a
// later row wins over an earlier one for the same record. Targets that match
// no record are skipped.
//
// A row with an id only ever applies its single answer to that id. Otherwise
// the file spec is expanded and, in order of preference, the answers
// sequence is mapped positionally (equal lengths), the single answer is
// applied to every target, or the row is reported as a mismatch.
func ApplyOverrides(qs []Question, rows []metadata.OverrideRow) OverrideReport {
	byID := make(map[string][]int, len(qs))
	byBase := make(map[string][]int, len(qs))
	for i := range qs {
		byID[qs[i].ID] = append(byID[qs[i].ID], i)
		byBase[qs[i].Base] = append(byBase[qs[i].Base], i)
	}

	var report OverrideReport
	set := func(idx []int, ans int) {
		for _, i := range idx {
			qs[i].SetAnswer(ans)
			report.Applied++
		}
	}

	for _, row := range rows {
		if row.ID != "" {
			if row.HasAnswer {
				set(byID[row.ID], row.Answer)
			}
			continue
		}

		targets := naming.ExpandList(row.FileSpec)
		if len(targets) == 0 {
			continue
		}
		switch {
		case len(row.Answers) > 0 && len(row.Answers) == len(targets):
			for k, base := range targets {
				set(byBase[base], row.Answers[k])
			}
		case row.HasAnswer:
			for _, base := range targets {
				set(byBase[base], row.Answer)
			}
		case row.RawAnswers != "":
			report.Mismatched = append(report.Mismatched, Mismatch{
				Line:    row.Line,
				Spec:    row.Spec(),
				Targets: len(targets),
				Answers: len(row.Answers),
			})
		}
	}
	return report
}

// Finalize gives every record without an answer the default. It returns the
// number of records that fell back to it.
func Finalize(qs []Question, defaultAnswer int) int {
	n := 0
	for i := range qs {
		if !qs[i].HasAnswer() {
			qs[i].SetAnswer(defaultAnswer)
			n++
		}
	}
	return n
}
