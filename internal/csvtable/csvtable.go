// Package csvtable reads the small, hand-edited metadata tables that sit next
// to the image tree. The format is line oriented: one record per line, a
// header line first, double-quoted cells may contain commas and "" escapes.
// A quoted cell never spans lines.
package csvtable

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

const bom = "\ufeff"

var reLineBreak = regexp.MustCompile(`\r?\n`)

// Row maps a lower-cased header name to the trimmed cell value.
type Row map[string]string

// Get returns the first non-empty value among keys. Tables use several
// spellings for the same column ("explain" / "solution_html").
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// Parse turns text into rows keyed by header. Empty input yields no rows.
// Missing trailing cells read as ""; extra cells are ignored.
func Parse(text string) []Row {
	var lines []string
	for _, l := range reLineBreak.Split(text, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	header := SplitLine(lines[0])
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, l := range lines[1:] {
		cells := SplitLine(l)
		row := make(Row, len(header))
		for i, h := range header {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SplitLine splits one line into trimmed cells. A leading byte order mark is
// stripped from the first cell.
func SplitLine(line string) []string {
	var (
		cells []string
		cur   strings.Builder
		inQ   bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQ && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQ = !inQ
			}
		case ch == ',' && !inQ:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	cells = append(cells, cur.String())

	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	cells[0] = strings.TrimSpace(strings.TrimPrefix(cells[0], bom))
	return cells
}

// ReadFile parses the table at path. A missing file is not an error: it
// returns (nil, false, nil). Any other read error is returned.
func ReadFile(path string) ([]Row, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(string(b)), true, nil
}
