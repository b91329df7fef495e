package components

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// PayoffColor grades how much of a debt has been paid down.
func PayoffColor(fraction float64) lipgloss.Color {
	t := theme.Active
	switch {
	case fraction >= 1:
		return t.Gain
	case fraction >= 0.5:
		return t.Accent
	case fraction > 0:
		return t.Warning
	default:
		return t.Loss
	}
}

// PayoffBar renders a labeled bar showing the paid-down fraction of a debt
// over the projection horizon, followed by the percentage and a note.
func PayoffBar(label string, fraction float64, note string, labelW, barW int) string {
	t := theme.Active

	fraction = clamp01(fraction)
	color := PayoffColor(fraction)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		space + bar.ViewAs(fraction) + space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", fraction*100)) +
		space + space + noteStyle.Render(note)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
