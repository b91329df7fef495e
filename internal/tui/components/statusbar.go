package components

import (
	"strings"

	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo feeds the bottom status bar.
type StatusInfo struct {
	Household string
	Scenario  string
	Message   string // right side, e.g. load time or a save result
	Error     bool   // paints Message as an error
}

// RenderStatusBar renders the bottom bar: key hints and context on the left,
// the message on the right.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if info.Error {
		msgStyle = msgStyle.Foreground(t.Loss)
	}

	left := base.Render(" [?]help  [s]cenario  [r]eload  [q]uit  ")
	if info.Household != "" {
		left += base.Render("│ ") + accent.Render(info.Household) + base.Render(" ")
	}
	if info.Scenario != "" {
		left += base.Render("│ ") + accent.Render(info.Scenario) + base.Render(" ")
	}

	right := ""
	if info.Message != "" {
		right = msgStyle.Render(info.Message + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
