package components

import (
	"strings"

	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of Key in Name, -1 when the key is not part of the name
}

// Tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Scenarios", Key: 'c', KeyPos: 1},
	{Name: "Debts", Key: 'd', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// tabLabel is the unstyled text of a tab. Inactive tabs show their shortcut
// in brackets.
func tabLabel(tab Tab, active bool) (before, key, after string) {
	if active {
		return tab.Name, "", ""
	}
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return tab.Name[:tab.KeyPos], string(tab.Name[tab.KeyPos]), tab.Name[tab.KeyPos+1:]
	}
	return tab.Name, string(tab.Key), ""
}

// TabVisualWidth is the rendered column width of a tab, padding included.
func TabVisualWidth(tab Tab, active bool) int {
	before, key, after := tabLabel(tab, active)
	w := len(before) + len(after) + 2
	if key != "" {
		w += len(key) + 2
	}
	return w
}

// RenderTabBar renders a single-row tab bar. Tabs are separated by one column.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracketStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(" " + tab.Name + " ")
			continue
		}
		before, key, after := tabLabel(tab, false)
		parts[i] = nameStyle.Render(" "+before) +
			bracketStyle.Render("[") + keyStyle.Render(key) + bracketStyle.Render("]") +
			nameStyle.Render(after+" ")
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab bound to key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
