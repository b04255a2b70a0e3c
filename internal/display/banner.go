// Package display renders the banner and the end-of-run summary. Styling
// is applied only when term.Enabled reports a color-capable terminal.
package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/qbank/internal/term"
)

const banner = `       _                 _
  __ _| |__   __ _ _ __ | | __
 / _` + "`" + ` | '_ \ / _` + "`" + ` | '_ \| |/ /
| (_| | |_) | (_| | | | |   <
 \__, |_.__/ \__,_|_| |_|_|\_\
    |_|`

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

// PrintBanner prints the ASCII art banner; magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	if term.Enabled() {
		fmt.Fprintln(w, bannerStyle.Render(banner))
		return
	}
	fmt.Fprintln(w, banner)
}
