package metadata

import (
	"github.com/backmassage/qbank/internal/csvtable"
)

// OverrideRow is one row of the override table. It only ever carries
// answers.
type OverrideRow struct {
	Line       int
	ID         string
	FileSpec   string // "vu1..vu12", "vu3; vu7", "images/vu28.jpg"
	Answer     int
	HasAnswer  bool
	Answers    []int  // decoded "answers" sequence
	RawAnswers string // the sequence cell as written
}

// LoadOverrides decodes rows in file order. Rows with neither an id nor a
// file spec are dropped.
func LoadOverrides(rows []csvtable.Row) []OverrideRow {
	out := make([]OverrideRow, 0, len(rows))
	for i, r := range rows {
		o := OverrideRow{
			Line:       i + 1,
			ID:         r.Get("id"),
			FileSpec:   r.Get("file", "filename"),
			RawAnswers: r.Get("answers"),
		}
		o.Answer, o.HasAnswer = ToIndex(r.Get("answer"))
		o.Answers = DecodeAnswers(o.RawAnswers)
		if o.ID == "" && o.FileSpec == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Spec returns a short label for diagnostics.
func (o OverrideRow) Spec() string {
	if o.ID != "" {
		return o.ID
	}
	return o.FileSpec
}
