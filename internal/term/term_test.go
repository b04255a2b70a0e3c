package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/qbank/internal/config"
)

func TestResolve(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tests := []struct {
		name string
		mode config.ColorMode
		want bool
	}{
		{"always", config.ColorAlways, true},
		{"never", config.ColorNever, false},
		{"auto on a regular file", config.ColorAuto, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.mode, f); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	Configure(config.ColorAlways)
	if !Enabled() {
		t.Error("Enabled() = false after ColorAlways")
	}
	Configure(config.ColorNever)
	if Enabled() {
		t.Error("Enabled() = true after ColorNever")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true")
	}
}
