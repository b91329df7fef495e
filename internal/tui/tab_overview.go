package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) summaryFor(sc model.Scenario) (model.ProjectionSummary, bool) {
	for _, s := range a.summaries {
		if s.Scenario == sc {
			return s, true
		}
	}
	return model.ProjectionSummary{}, false
}

func (a App) renderOverviewTab(cw, contentH int) string {
	t := theme.Active
	months := a.results[a.scenario]
	sum, ok := a.summaryFor(a.scenario)
	if !ok || len(months) == 0 {
		return components.ContentCard("Overview", "No projection yet. Press r to reload.", cw)
	}

	var b strings.Builder

	cashNote := cli.FormatDelta(a.settings.CurrentBalance, sum.EndingCash) + " vs today"
	lowNote := "in " + sum.LowestCashMonth
	lowColor := t.Signed(sum.LowestCash.IsNegative())
	if sum.InsolventMonth != "" {
		lowNote = "below zero from " + sum.InsolventMonth
	}
	debtNote := "no debt"
	switch {
	case sum.DebtFreeMonth != "":
		debtNote = "debt-free " + sum.DebtFreeMonth
	case sum.EndingDebt.IsPositive():
		debtNote = "still owed at horizon"
	}

	metrics := []components.Metric{
		{Label: "Ending cash", Value: cli.FormatMoney(sum.EndingCash), Note: cashNote, Color: t.Signed(sum.EndingCash.IsNegative())},
		{Label: "Lowest cash", Value: cli.FormatMoney(sum.LowestCash), Note: lowNote, Color: lowColor},
		{Label: "Debt at horizon", Value: cli.FormatMoney(sum.EndingDebt), Note: debtNote},
		{Label: "Net worth", Value: cli.FormatMoney(sum.EndingNetWorth), Note: "investments " + cli.FormatMoneyShort(sum.EndingInvestment)},
	}
	b.WriteString(components.MetricRow(metrics, cw))
	b.WriteString("\n")

	series := []components.Series{
		{Name: "cash", Values: projection.CashSeries(months), Color: t.Scenario(a.scenario)},
	}
	if a.settings.TotalDebt().IsPositive() {
		series = append(series, components.Series{Name: "debt", Values: projection.DebtSeries(months), Color: t.Debt})
	}
	if !sum.EndingInvestment.IsZero() {
		series = append(series, components.Series{Name: "investments", Values: projection.InvestmentSeries(months), Color: t.Investment})
	}
	labels := projection.Labels(months)

	chartH := a.opts.ChartHeight
	if a.isCompactLayout() {
		chartH = max(chartH*2/3, 4)
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Balances · "+a.scenario.String(),
			components.LineChart(series, labels, components.CardInnerWidth(cw), chartH), cw))
		b.WriteString("\n")
	} else {
		widths := []int{cw * 2 / 3, cw - cw*2/3}
		chart := components.ContentCard("Balances · "+a.scenario.String(),
			components.LineChart(series, labels, components.CardInnerWidth(widths[0]), chartH), widths[0])
		flow := components.ContentCard("First month · "+months[0].Label,
			a.renderFlowBreakdown(months[0], components.CardInnerWidth(widths[1])), widths[1])
		b.WriteString(components.CardRow([]string{chart, flow}))
		b.WriteString("\n")
	}

	used := lipgloss.Height(b.String())
	rows := contentH - used - 4 // card border, title and header row
	if rows < 3 {
		rows = 3
	}
	title := fmt.Sprintf("Months %d-%d of %d · j/k to scroll",
		a.tableOffset+1, min(a.tableOffset+rows, len(months)), len(months))
	b.WriteString(components.ContentCard(title,
		renderMonthTable(months, a.tableOffset, rows, components.CardInnerWidth(cw)), cw))

	return b.String()
}

// renderFlowBreakdown shows where one month's income goes.
func (a App) renderFlowBreakdown(m model.ProjectionMonth, innerW int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	rows := []struct {
		name  string
		amt   decimal.Decimal
		color lipgloss.Color
	}{
		{"Income", m.Income, t.Gain},
		{"Expenses", m.Expenses, t.Warning},
		{"Debt paid", m.DebtPayment, t.Debt},
		{"Invested", a.settings.InvestmentContributionMonthly, t.Investment},
	}

	peak := decimal.Zero
	for _, r := range rows {
		peak = decimal.Max(peak, r.amt)
	}

	const nameW, valueW = 10, 12
	barW := innerW - nameW - valueW - 2
	if barW < 1 {
		barW = 1
	}

	var b strings.Builder
	for _, r := range rows {
		n := 0
		if peak.IsPositive() {
			n = int(r.amt.Div(peak).InexactFloat64() * float64(barW))
		}
		bar := lipgloss.NewStyle().Foreground(r.color).Background(t.Surface).Render(strings.Repeat("█", n))
		pad := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", barW-n))
		b.WriteString(label.Render(fmt.Sprintf("%-*s", nameW, r.name)) + " " + bar + pad + " " +
			value.Render(fmt.Sprintf("%*s", valueW, cli.FormatMoney(r.amt))) + "\n")
	}

	net := lipgloss.NewStyle().Foreground(t.Signed(m.NetCashFlow.IsNegative())).Background(t.Surface).Bold(true)
	b.WriteString("\n" + label.Render("Net cash flow ") + net.Render(cli.FormatMoney(m.NetCashFlow)))
	return b.String()
}

// renderMonthTable lists rows months starting at offset.
func renderMonthTable(months []model.ProjectionMonth, offset, rows, innerW int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	cols := []string{"Income", "Expenses", "Debt paid", "Net flow", "Cash", "Debt left"}
	colW := (innerW - 8) / len(cols)
	if colW < 10 {
		colW = 10
	}

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-8s", "Month")))
	for _, c := range cols {
		b.WriteString(head.Render(fmt.Sprintf("%*s", colW, c)))
	}

	end := min(offset+rows, len(months))
	for _, m := range months[offset:end] {
		b.WriteString("\n")
		b.WriteString(dim.Render(fmt.Sprintf("%-8s", m.Label)))
		for _, v := range []decimal.Decimal{m.Income, m.Expenses, m.DebtPayment} {
			b.WriteString(cellStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(v))))
		}
		for _, v := range []decimal.Decimal{m.NetCashFlow, m.CumulativeCash} {
			signed := lipgloss.NewStyle().Foreground(t.Signed(v.IsNegative())).Background(t.Surface)
			b.WriteString(signed.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(v))))
		}
		b.WriteString(cellStyle.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(m.DebtBalance))))
	}
	return b.String()
}
