package metadata

import (
	"github.com/backmassage/qbank/internal/csvtable"
	"github.com/backmassage/qbank/internal/naming"
)

// Column spellings accepted by the rich table, in priority order.
var (
	colFile      = []string{"file"}
	colID        = []string{"id"}
	colAnswer    = []string{"answer"}
	colSection   = []string{"section"}
	colText      = []string{"text"}
	colExplain   = []string{"explain", "solution_html"}
	colSolImages = []string{"solution_images", "solution_image"}
	colVideos    = []string{"video_links", "video_link", "link"}
)

// RichRow is one decoded row of the rich table. Empty strings mean the cell
// was not supplied.
type RichRow struct {
	Line           int // 1-based data row number
	ID             string
	File           string // bare filename, case preserved
	Answer         int
	HasAnswer      bool
	Section        string
	Text           string
	Explain        string
	SolutionImages []string
	VideoLinks     []string
}

// RichTable indexes rich rows by id and by bare filename. Later rows replace
// earlier ones under the same key.
type RichTable struct {
	Rows   []*RichRow
	ByID   map[string]*RichRow
	ByFile map[string]*RichRow
}

// NewRichTable returns an empty table, used when the file is absent.
func NewRichTable() *RichTable {
	return &RichTable{
		ByID:   make(map[string]*RichRow),
		ByFile: make(map[string]*RichRow),
	}
}

// LoadRich decodes rows into a RichTable.
func LoadRich(rows []csvtable.Row) *RichTable {
	t := NewRichTable()
	for i, r := range rows {
		row := &RichRow{
			Line:           i + 1,
			ID:             r.Get(colID...),
			Section:        r.Get(colSection...),
			Text:           r.Get(colText...),
			Explain:        r.Get(colExplain...),
			SolutionImages: naming.SplitList(r.Get(colSolImages...)),
			VideoLinks:     naming.SplitList(r.Get(colVideos...)),
		}
		if f := r.Get(colFile...); f != "" {
			row.File = naming.BareName(f)
		}
		row.Answer, row.HasAnswer = ToIndex(r.Get(colAnswer...))

		if row.ID == "" && row.File == "" {
			continue
		}
		t.Rows = append(t.Rows, row)
		if row.ID != "" {
			t.ByID[row.ID] = row
		}
		if row.File != "" {
			t.ByFile[row.File] = row
		}
	}
	return t
}

// Lookup finds the row for a question: exact id first, then bare filename.
func (t *RichTable) Lookup(id, bare string) *RichRow {
	if t == nil {
		return nil
	}
	if r, ok := t.ByID[id]; ok {
		return r
	}
	if r, ok := t.ByFile[bare]; ok {
		return r
	}
	return nil
}
