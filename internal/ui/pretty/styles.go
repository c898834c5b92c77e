// Package pretty renders diagnostics, diffs and summaries with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI 256 palette indices.
const (
	colorRed     = "9"
	colorGreen   = "10"
	colorYellow  = "11"
	colorBlue    = "12"
	colorMagenta = "13"
	colorCyan    = "14"
	colorGrey    = "8"
	colorSilver  = "7"
)

// Styles holds the renderers shared by the reporters.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Hint    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns styles for the given color mode. Without color every
// style renders text unchanged.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(c string) lipgloss.Style {
		if !colorEnabled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	strong := func(s lipgloss.Style) lipgloss.Style {
		return s.Bold(colorEnabled)
	}
	plain := lipgloss.NewStyle()

	return &Styles{
		Error:   strong(fg(colorRed)),
		Warning: strong(fg(colorYellow)),
		Info:    strong(fg(colorBlue)),
		Hint:    fg(colorMagenta),

		FilePath:   strong(plain),
		Location:   fg(colorGrey),
		RuleID:     fg(colorGrey),
		Message:    plain,
		SourceLine: fg(colorSilver),
		Caret:      fg(colorRed),

		DiffHeader:  strong(plain),
		DiffHunk:    fg(colorCyan),
		DiffAdd:     fg(colorGreen),
		DiffRemove:  fg(colorRed),
		DiffContext: fg(colorGrey),

		SummaryTitle: strong(plain),
		SummaryValue: plain,
		Success:      strong(fg(colorGreen)),
		Failure:      strong(fg(colorRed)),

		Dim:  fg(colorGrey),
		Bold: strong(plain),
	}
}

// IsColorEnabled resolves a color mode of "always", "never" or "auto" for
// writer. Auto enables color only on a terminal when NO_COLOR is unset, and
// any other mode behaves like auto.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
