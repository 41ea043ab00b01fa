// Package style holds the colours and text styles used by nxm output.
//
// Call Init(colorEnabled) once at startup.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ─── Colour palette ──────────────────────────────────────────────────────────

var (
	Cyan   = lipgloss.Color("#00B4D8")
	Green  = lipgloss.Color("#22C55E")
	Yellow = lipgloss.Color("#FACC15")
	Red    = lipgloss.Color("#EF4444")

	White  = lipgloss.Color("#FAFAFA")
	Dim    = lipgloss.Color("#6B7280")
	Subtle = lipgloss.Color("#374151")
)

// ─── Text styles ─────────────────────────────────────────────────────────────

var (
	Success = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Yellow)

	Error = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	DimText = lipgloss.NewStyle().
		Foreground(Dim)
)

// Enabled tracks whether styles should render ANSI output.
var Enabled = true

// Init configures the style package. Call once at startup.
func Init(colorEnabled bool) {
	Enabled = colorEnabled
	if !colorEnabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func SuccessIcon() string {
	if Enabled {
		return Success.Render("✓")
	}
	return "OK"
}

func ErrorIcon() string {
	if Enabled {
		return Error.Render("✗")
	}
	return "ERROR"
}

func WarningIcon() string {
	if Enabled {
		return Warning.Render("!")
	}
	return "WARN"
}

// Status renders a component outcome with its icon.
func Status(status string) string {
	switch status {
	case "Success":
		return SuccessIcon() + " " + status
	case "Skipped":
		return WarningIcon() + " " + status
	case "Failed":
		return ErrorIcon() + " " + status
	}
	return status
}

// Hint renders a "next step" hint message.
func Hint(msg string) string {
	return DimText.Render("→ " + msg)
}
