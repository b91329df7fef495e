package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Series is one line on a LineChart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// cell is one plotted character of a chart grid.
type cell struct {
	ch    rune
	color lipgloss.Color
}

// LineChart plots one or more series against a shared y axis that always
// includes zero, so negative balances fall below a visible zero line.
// The result is height plot rows, an x axis, a label row and, when more
// than one series is drawn, a legend.
func LineChart(series []Series, labels []string, width, height int) string {
	n := 0
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	if n == 0 {
		return ""
	}
	if height < 3 {
		height = 3
	}

	t := theme.Active
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	yLabelW := max(len(AxisLabel(hi)), len(AxisLabel(lo)), 4)
	plotW := width - yLabelW - 1
	if plotW < 4 {
		plotW = 4
	}

	rowOf := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(height-1)))
	}
	colOf := func(i int) int {
		if n == 1 {
			return 0
		}
		return int(math.Round(float64(i) * float64(plotW-1) / float64(n-1)))
	}
	valueAt := func(values []float64, col int) (float64, bool) {
		if len(values) == 0 {
			return 0, false
		}
		if n == 1 {
			return values[0], true
		}
		idx := int(math.Round(float64(col) * float64(n-1) / float64(plotW-1)))
		if idx >= len(values) {
			return 0, false
		}
		return values[idx], true
	}

	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, plotW)
	}

	zeroRow := rowOf(0)
	for c := 0; c < plotW; c++ {
		grid[zeroRow][c] = cell{ch: '┈', color: t.TextDim}
	}

	lastCol := colOf(n - 1)
	for _, s := range series {
		prev := -1
		for c := 0; c <= lastCol; c++ {
			v, ok := valueAt(s.Values, c)
			if !ok {
				break
			}
			r := rowOf(v)
			if prev >= 0 && prev != r {
				step := 1
				if r < prev {
					step = -1
				}
				for fill := prev + step; fill != r; fill += step {
					grid[fill][c] = cell{ch: '│', color: s.Color}
				}
			}
			grid[r][c] = cell{ch: '•', color: s.Color}
			prev = r
		}
	}

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	tickRows := map[int]string{0: AxisLabel(hi), height - 1: AxisLabel(lo)}
	if zeroRow != 0 && zeroRow != height-1 {
		tickRows[zeroRow] = "0"
	}

	var b strings.Builder
	for r, row := range grid {
		b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, tickRows[r])))
		if _, ok := tickRows[r]; ok {
			b.WriteString(axis.Render("┤"))
		} else {
			b.WriteString(axis.Render("│"))
		}
		for _, c := range row {
			if c.ch == 0 {
				b.WriteString(blank.Render(" "))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Background(t.Surface).Render(string(c.ch)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(strings.Repeat(" ", yLabelW) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	b.WriteString(axis.Render(strings.Repeat(" ", yLabelW+1) + xAxisLabels(labels, n, plotW, colOf)))

	if len(series) > 1 {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		for i, s := range series {
			if i > 0 {
				b.WriteString(blank.Render("  "))
			}
			b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("• " + s.Name))
		}
	}
	return b.String()
}

// xAxisLabels places the first, middle and last label under their columns.
func xAxisLabels(labels []string, n, plotW int, colOf func(int) int) string {
	buf := []rune(strings.Repeat(" ", plotW))
	if len(labels) != n {
		return string(buf)
	}

	place := func(i int, alignRight bool) {
		lbl := []rune(labels[i])
		pos := colOf(i)
		if alignRight {
			pos -= len(lbl) - 1
		}
		if pos < 0 || pos+len(lbl) > plotW {
			return
		}
		for j := pos; j < pos+len(lbl); j++ {
			if buf[j] != ' ' {
				return
			}
		}
		copy(buf[pos:], lbl)
	}

	place(0, false)
	if n > 2 {
		place(n/2, false)
	}
	if n > 1 {
		place(n-1, true)
	}
	return strings.TrimRight(string(buf), " ")
}

// BarChart draws non-negative values as vertical bars with eighth-block tops.
// Bars are sampled down when there is not enough room for one column each.
func BarChart(values []float64, color lipgloss.Color, width, height int) string {
	if len(values) == 0 || height < 1 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	yLabelW := max(len(AxisLabel(peak)), 4)
	plotW := width - yLabelW - 1
	if plotW < 1 {
		plotW = 1
	}
	if len(values) > plotW {
		sampled := make([]float64, plotW)
		for i := range sampled {
			sampled[i] = values[i*(len(values)-1)/max(plotW-1, 1)]
		}
		values = sampled
	}

	barW := max(plotW/len(values), 1)
	if barW > 4 {
		barW = 4
	}
	blocks := []rune(" ▁▂▃▄▅▆▇█")

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := peak * float64(row) / float64(height)
		bottom := peak * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = AxisLabel(peak)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		var line strings.Builder
		for _, v := range values {
			ch := ' '
			switch {
			case v >= top:
				ch = '█'
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				ch = blocks[min(max(idx, 1), 8)]
			}
			line.WriteString(strings.Repeat(string(ch), barW))
		}
		b.WriteString(bar.Render(line.String()))
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", barW*len(values)))))
	return b.String()
}

// AxisLabel formats an axis value compactly ("12k", "-1.5M").
func AxisLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	scaled := func(div float64, suffix string) string {
		q := v / div
		if q == math.Trunc(q) {
			return fmt.Sprintf("%s%.0f%s", sign, q, suffix)
		}
		return fmt.Sprintf("%s%.1f%s", sign, q, suffix)
	}
	switch {
	case v >= 1e9:
		return scaled(1e9, "B")
	case v >= 1e6:
		return scaled(1e6, "M")
	case v >= 1e3:
		return scaled(1e3, "k")
	default:
		return fmt.Sprintf("%s%.0f", sign, v)
	}
}
