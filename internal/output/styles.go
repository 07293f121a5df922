package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: artifact paths, app names, tool names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for enabled tools and successfully written files.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings and skipped blocks.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for disabled tools.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Styles groups the semantic styles used across commands.
type Styles struct {
	// Noun styles identifiable nouns (artifact paths, app names, namespaces).
	Noun lipgloss.Style

	// Bold styles headers and summary lines.
	Bold lipgloss.Style

	// Muted styles structural chrome (descriptions, separators).
	Muted lipgloss.Style

	// Success styles enabled/added lines.
	Success lipgloss.Style

	// Warning styles modified/skipped lines.
	Warning lipgloss.Style

	// Error styles disabled/removed lines.
	Error lipgloss.Style
}

// defaultStyles is the shared style set.
var defaultStyles = &Styles{
	Noun:    lipgloss.NewStyle().Foreground(ColorCyan),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Faint(true),
	Success: lipgloss.NewStyle().Foreground(ColorGreen),
	Warning: lipgloss.NewStyle().Foreground(ColorYellow),
	Error:   lipgloss.NewStyle().Foreground(ColorRed),
}

// GetStyles returns the shared style set.
func GetStyles() *Styles {
	return defaultStyles
}

// NoColorStyles returns a style set with no color or attributes, for tests
// and non-TTY output.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Noun:    plain,
		Bold:    plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatToolLine renders a "- Tool: Enabled/Disabled" line with a color-coded
// status, used by the settings and generation summaries.
func FormatToolLine(tool string, enabled bool) string {
	status := defaultStyles.Error.Render("Disabled")
	if enabled {
		status = defaultStyles.Success.Render("Enabled")
	}
	return "- " + defaultStyles.Noun.Render(tool) + ": " + status
}
