package naming

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seq(prefix string, from, to int) []string {
	var out []string
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func TestExpandToken(t *testing.T) {
	cases := []struct {
		name string
		tok  string
		want []string
	}{
		{name: "single", tok: "vu12", want: []string{"vu12"}},
		{name: "prefixed range", tok: "vu1..vu12", want: seq("vu", 1, 12)},
		{name: "bare end", tok: "vu1..12", want: seq("vu", 1, 12)},
		{name: "dash range", tok: "vu1-3", want: []string{"vu1", "vu2", "vu3"}},
		{name: "zero padded", tok: "vu01..vu05", want: []string{"vu01", "vu02", "vu03", "vu04", "vu05"}},
		{name: "pure numeric padded", tok: "01..03", want: []string{"01", "02", "03"}},
		{name: "descending", tok: "vu5..vu1", want: []string{"vu5", "vu4", "vu3", "vu2", "vu1"}},
		{name: "same start end", tok: "vu4..vu4", want: []string{"vu4"}},
		{name: "path with extension", tok: "images/vu28.jpg", want: []string{"vu28"}},
		{name: "windows path", tok: `images\Beams\VU3.PNG`, want: []string{"vu3"}},
		{name: "case folded", tok: "VU1..VU3", want: []string{"vu1", "vu2", "vu3"}},
		{name: "mismatched end prefix", tok: "vu1..ab3", want: []string{"vu1..ab3"}},
		{name: "unknown extension", tok: "notes.txt", want: []string{"notes.txt"}},
		{name: "too long", tok: "vu1..vu20000", want: []string{"vu1..vu20000"}},
		{name: "empty", tok: "", want: []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExpandToken(tc.tok)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ExpandToken(%q) mismatch (-want +got):\n%s", tc.tok, diff)
			}
		})
	}
}

func TestExpandToken_TwelveElements(t *testing.T) {
	got := ExpandToken("vu1..vu12")
	if len(got) != 12 || got[0] != "vu1" || got[11] != "vu12" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandList(t *testing.T) {
	cases := []struct {
		spec string
		want []string
	}{
		{"vu1, vu3", []string{"vu1", "vu3"}},
		{"vu1..vu3; vu7", []string{"vu1", "vu2", "vu3", "vu7"}},
		{"vu2,,vu2 ;", []string{"vu2", "vu2"}},
		{"  ", nil},
		{"images/vu9.jpg;vu10-11", []string{"vu9", "vu10", "vu11"}},
	}
	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ExpandList(tc.spec)); diff != "" {
				t.Errorf("ExpandList(%q) mismatch (-want +got):\n%s", tc.spec, diff)
			}
		})
	}
}
