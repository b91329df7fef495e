package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so background fills produce ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)
	theme.SetActive("flexoki-dark")
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	got := LayoutRow(83, 4)
	want := []int{21, 21, 21, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LayoutRow(83, 4) = %v, want %v", got, want)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowPadsShortCards(t *testing.T) {
	short := ContentCard("Cash", "$1,700.00", 22)
	tall := ContentCard("Debts", "card\ncar\nloan\nmortgage", 22)

	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatalf("short card has %d lines, tall %d", shortLines, tallLines)
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Fatalf("line %d below the short card is unpainted: %q", i, lines[i])
		}
	}
}

func TestMetricRowWidth(t *testing.T) {
	row := MetricRow([]Metric{
		{Label: "Ending cash", Value: "$3,100.00", Note: "+$1,000.00"},
		{Label: "Lowest cash", Value: "-$50.00", Color: theme.Active.Loss},
		{Label: "Debt", Value: "$0.00"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestLineChartShape(t *testing.T) {
	series := []Series{
		{Name: "base", Values: []float64{1000, 500, -250, -900}, Color: theme.Active.BaseLine},
		{Name: "best", Values: []float64{1200, 1400, 1600, 1800}, Color: theme.Active.BestLine},
	}
	labels := []string{"2026-10", "2026-11", "2026-12", "2027-01"}

	out := LineChart(series, labels, 60, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 8+3 {
		t.Fatalf("LineChart lines = %d, want 11", len(lines))
	}
	if !strings.Contains(lines[0], "1.8k") {
		t.Fatalf("top tick = %q, want the 1.8k maximum", lines[0])
	}
	if !strings.Contains(lines[7], "-900") {
		t.Fatalf("bottom tick = %q, want the -900 minimum", lines[7])
	}
	if !strings.Contains(out, "2026-10") || !strings.Contains(out, "2027-01") {
		t.Fatal("x axis is missing the first or last month label")
	}
	if !strings.Contains(lines[len(lines)-1], "base") || !strings.Contains(lines[len(lines)-1], "best") {
		t.Fatalf("legend = %q", lines[len(lines)-1])
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 60 {
			t.Fatalf("line %d width = %d, exceeds 60", i, w)
		}
	}
}

func TestLineChartSingleSeriesHasNoLegend(t *testing.T) {
	out := LineChart([]Series{{Name: "base", Values: []float64{1, 2, 3}}}, nil, 40, 5)
	if got := len(strings.Split(out, "\n")); got != 5+2 {
		t.Fatalf("lines = %d, want 7", got)
	}
	if LineChart(nil, nil, 40, 5) != "" {
		t.Fatal("empty chart should render nothing")
	}
}

func TestBarChartHeight(t *testing.T) {
	out := BarChart([]float64{900, 600, 300, 0}, theme.Active.Debt, 40, 6)
	if got := len(strings.Split(out, "\n")); got != 7 {
		t.Fatalf("BarChart lines = %d, want 7", got)
	}
	if !strings.HasPrefix(strings.TrimSpace(lipglossStrip(out)), "900") {
		t.Fatalf("peak label missing: %q", out)
	}
}

func TestAxisLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1k"},
		{1500, "1.5k"},
		{-2500000, "-2.5M"},
		{3e9, "3B"},
	}
	for _, tt := range tests {
		if got := AxisLabel(tt.in); got != tt.want {
			t.Fatalf("AxisLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		want := len(Tabs) - 1
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		if got := lipgloss.Width(RenderTabBar(active, 0)); got != want {
			t.Fatalf("active=%d: rendered width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('d'); got != 2 {
		t.Fatalf("TabIdxByKey('d') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestPayoffColor(t *testing.T) {
	th := theme.Active
	if PayoffColor(1) != th.Gain || PayoffColor(0) != th.Loss || PayoffColor(0.25) != th.Warning {
		t.Fatal("PayoffColor grades are off")
	}
	bar := PayoffBar("a very long debt name", 1.7, "2027-03", 8, 20)
	if !strings.Contains(bar, "100%") {
		t.Fatalf("fraction above 1 should clamp to 100%%: %q", bar)
	}
}

func TestStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(100, StatusInfo{Household: "home", Scenario: "best", Message: "loaded in 2ms"})
	if w := lipgloss.Width(bar); w != 100 {
		t.Fatalf("status bar width = %d, want 100", w)
	}
}

// lipglossStrip drops ANSI sequences so tests can look at plain text.
func lipglossStrip(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
