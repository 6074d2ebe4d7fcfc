// Package cli implements the interactive terminal surface: the ingestion
// picker, the record preview, the human review gate, and the send
// confirmation. All prompts block; the pipeline is strictly sequential.
package cli

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// headerStyle is used for section headers like the review banner.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

// labelStyle is used for field labels (From, Subject, ...).
var labelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorGray)

// panelStyle wraps body and draft text in a bordered panel.
var panelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder)

// okStyle and warnStyle color terminal outcome lines.
var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// categoryStyle returns a color-coded style for a record category.
func categoryStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch category {
	case "spam":
		return base.Foreground(colorRed)
	case "urgent":
		return base.Foreground(colorYellow)
	case "informational":
		return base.Foreground(colorBlue)
	case "needs_review":
		return base.Foreground(colorGreen)
	default:
		return base.Foreground(colorGray)
	}
}
