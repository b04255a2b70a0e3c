package csvtable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []Row
	}{
		{name: "empty", text: "", want: nil},
		{name: "blank lines only", text: "\n \r\n\n", want: nil},
		{name: "header only", text: "file,answer\n", want: []Row{}},
		{
			name: "crlf and blank lines",
			text: "File , Answer\r\n\r\nvu1,b\r\nvu2, 3 \r\n",
			want: []Row{
				{"file": "vu1", "answer": "b"},
				{"file": "vu2", "answer": "3"},
			},
		},
		{
			name: "quoted comma and escaped quote",
			text: "id,text\ntype2-vu1,\"<p class=\"\"q\"\">a, b</p>\"\n",
			want: []Row{{"id": "type2-vu1", "text": `<p class="q">a, b</p>`}},
		},
		{
			name: "missing trailing cells",
			text: "id,file,answer\nq1\n",
			want: []Row{{"id": "q1", "file": "", "answer": ""}},
		},
		{
			name: "extra cells ignored",
			text: "id\nq1,extra\n",
			want: []Row{{"id": "q1"}},
		},
		{
			name: "bom on header",
			text: "\ufefffile,answer\nvu1,a\n",
			want: []Row{{"file": "vu1", "answer": "a"}},
		},
		{
			name: "bom only stripped from first cell",
			text: "a,b\n\ufeffx,\ufeffy\n",
			want: []Row{{"a": "x", "b": "\ufeffy"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Parse(tc.text)); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRowGet(t *testing.T) {
	r := Row{"explain": "", "solution_html": "<b>x</b>"}
	assert.Equal(t, "<b>x</b>", r.Get("explain", "solution_html"))
	assert.Equal(t, "", r.Get("missing"))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	rows, found, err := ReadFile(filepath.Join(dir, "absent.csv"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rows)

	p := filepath.Join(dir, "answers.csv")
	require.NoError(t, os.WriteFile(p, []byte("file,answer\nvu1,c\n"), 0o644))
	rows, found, err = ReadFile(p)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0]["answer"])

	_, _, err = ReadFile(dir)
	assert.Error(t, err)
}
