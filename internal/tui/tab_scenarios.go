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

// comparisonRow is one line of the scenario comparison card.
type comparisonRow struct {
	label string
	money func(model.ProjectionSummary) decimal.Decimal
	month func(model.ProjectionSummary) string
	// invert marks figures where a rise is bad.
	invert bool
}

var comparisonRows = []comparisonRow{
	{label: "Ending cash", money: func(s model.ProjectionSummary) decimal.Decimal { return s.EndingCash }},
	{label: "Lowest cash", money: func(s model.ProjectionSummary) decimal.Decimal { return s.LowestCash }},
	{label: "Total income", money: func(s model.ProjectionSummary) decimal.Decimal { return s.TotalIncome }},
	{label: "Total expenses", money: func(s model.ProjectionSummary) decimal.Decimal { return s.TotalExpenses }, invert: true},
	{label: "Debt at horizon", money: func(s model.ProjectionSummary) decimal.Decimal { return s.EndingDebt }, invert: true},
	{label: "Investments", money: func(s model.ProjectionSummary) decimal.Decimal { return s.EndingInvestment }},
	{label: "Net worth", money: func(s model.ProjectionSummary) decimal.Decimal { return s.EndingNetWorth }},
	{label: "Below zero from", month: func(s model.ProjectionSummary) string { return s.InsolventMonth }},
	{label: "Debt-free in", month: func(s model.ProjectionSummary) string { return s.DebtFreeMonth }},
}

func (a App) renderScenariosTab(cw int) string {
	t := theme.Active
	if len(a.summaries) == 0 {
		return components.ContentCard("Scenarios", "No projection yet. Press r to reload.", cw)
	}

	var series []components.Series
	var labels []string
	for _, sc := range model.AllScenarios {
		months, ok := a.results[sc]
		if !ok {
			continue
		}
		series = append(series, components.Series{
			Name:   sc.String(),
			Values: projection.CashSeries(months),
			Color:  t.Scenario(sc),
		})
		if labels == nil {
			labels = projection.Labels(months)
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Cumulative cash by scenario",
		components.LineChart(series, labels, components.CardInnerWidth(cw), a.opts.ChartHeight), cw))
	b.WriteString("\n")

	factors := a.renderFactors(cw)
	b.WriteString(components.ContentCard("At the horizon", a.renderComparison(components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")
	b.WriteString(factors)
	return b.String()
}

func (a App) renderComparison(innerW int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	base, _ := a.summaryFor(model.ScenarioBase)

	const labelW = 16
	colW := (innerW - labelW) / len(a.summaries)
	if colW < 14 {
		colW = 14
	}
	valueW := colW / 2
	deltaW := colW - valueW

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-*s", labelW, "")))
	for _, s := range a.summaries {
		name := lipgloss.NewStyle().Foreground(t.Scenario(s.Scenario)).Background(t.Surface).Bold(true)
		b.WriteString(name.Render(fmt.Sprintf("%*s", colW, s.Scenario.String())))
	}

	for _, row := range comparisonRows {
		b.WriteString("\n")
		b.WriteString(label.Render(fmt.Sprintf("%-*s", labelW, row.label)))
		for _, s := range a.summaries {
			if row.month != nil {
				b.WriteString(value.Render(fmt.Sprintf("%*s", colW, cli.OrDash(row.month(s)))))
				continue
			}
			v := row.money(s)
			if s.Scenario == model.ScenarioBase {
				b.WriteString(value.Render(fmt.Sprintf("%*s", colW, cli.FormatMoneyShort(v))))
				continue
			}
			b.WriteString(value.Render(fmt.Sprintf("%*s", valueW, cli.FormatMoneyShort(v))))
			b.WriteString(deltaStyle(row.money(base), v, row.invert).Render(fmt.Sprintf("%*s", deltaW, shortDelta(row.money(base), v))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dim.Render("Deltas are against base. Scenario factors scale income and expenses only."))
	return b.String()
}

func shortDelta(current, simulated decimal.Decimal) string {
	d := simulated.Sub(current).Round(2)
	if d.IsZero() {
		return "±0"
	}
	s := cli.FormatMoneyShort(d)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func deltaStyle(current, simulated decimal.Decimal, invert bool) lipgloss.Style {
	t := theme.Active
	d := simulated.Sub(current).Round(2)
	color := t.TextDim
	switch {
	case d.IsZero():
	case d.IsPositive() != invert:
		color = t.Gain
	default:
		color = t.Loss
	}
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface)
}

// renderFactors shows the multipliers each scenario applies.
func (a App) renderFactors(cw int) string {
	t := theme.Active
	adj := a.settings.ScenarioAdjustments
	rows := []struct {
		sc model.Scenario
		f  model.Factors
	}{
		{model.ScenarioBase, model.IdentityFactors()},
		{model.ScenarioBest, adj.Best},
		{model.ScenarioWorst, adj.Worst},
	}

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var parts []string
	for _, r := range rows {
		name := lipgloss.NewStyle().Foreground(t.Scenario(r.sc)).Background(t.Surface).Bold(true)
		parts = append(parts, name.Render(r.sc.String())+
			label.Render(fmt.Sprintf(" income %s  expenses %s", cli.FormatFactor(r.f.Income), cli.FormatFactor(r.f.Expense))))
	}
	return components.ContentCard("Factors", strings.Join(parts, label.Render("    ")), cw)
}
