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

var twelve = decimal.NewFromInt(12)

// debtProgress is the projected fate of one debt.
type debtProgress struct {
	name     string
	opening  decimal.Decimal
	ending   decimal.Decimal
	paidOff  string // label of the first month at zero
	growing  bool
	fraction float64
}

func debtName(i int, d model.Debt) string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("debt %d", i+1)
}

// trackDebts follows each debt through months.
func trackDebts(debts []model.Debt, months []model.ProjectionMonth) []debtProgress {
	out := make([]debtProgress, len(debts))
	for j, d := range debts {
		p := debtProgress{name: debtName(j, d), opening: d.Balance, ending: d.Balance}
		for _, m := range months {
			if j >= len(m.DebtBalances) {
				break
			}
			bal := m.DebtBalances[j]
			p.ending = bal
			if p.paidOff == "" && d.Balance.IsPositive() && bal.IsZero() {
				p.paidOff = m.Label
			}
		}

		switch {
		case !d.Balance.IsPositive():
			p.fraction = 1
		case p.ending.GreaterThan(d.Balance):
			p.growing = true
		default:
			p.fraction = decimal.NewFromInt(1).Sub(p.ending.Div(d.Balance)).InexactFloat64()
		}
		out[j] = p
	}
	return out
}

func (a App) renderDebtsTab(cw int) string {
	t := theme.Active
	debts := a.settings.Debts
	if len(debts) == 0 {
		return components.ContentCard("Debts",
			"No debts recorded.\n\nAdd one with `runway settings set --debt name:balance:payment:rate`.", cw)
	}
	months := a.results[a.scenario]
	progress := trackDebts(debts, months)

	innerW := components.CardInnerWidth(cw)
	labelW := 14
	barW := innerW - labelW - 30
	if barW < 10 {
		barW = 10
	}

	var bars strings.Builder
	for i, p := range progress {
		if i > 0 {
			bars.WriteString("\n")
		}
		note := "paid off " + p.paidOff
		switch {
		case p.growing:
			note = "growing, payment below interest"
		case p.paidOff == "" && p.ending.IsPositive():
			note = cli.FormatMoney(p.ending) + " left"
		case p.paidOff == "":
			note = "nothing owed"
		}
		bars.WriteString(components.PayoffBar(p.name, p.fraction, note, labelW, barW))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Payoff by horizon · "+a.scenario.String(), bars.String(), cw))
	b.WriteString("\n")

	chartH := max(a.opts.ChartHeight/2, 4)
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Terms", a.renderDebtDetails(innerW), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Total debt balance",
			components.BarChart(projection.DebtSeries(months), t.Debt, innerW, chartH), cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Terms", a.renderDebtDetails(components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("Total debt balance",
			components.BarChart(projection.DebtSeries(months), t.Debt, components.CardInnerWidth(halves[1]), chartH),
			halves[1]),
	}))
	return b.String()
}

// renderDebtDetails lists the configured terms and the first month's interest.
func (a App) renderDebtDetails(innerW int) string {
	t := theme.Active
	head := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	cell := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	nameW := max(innerW-4*11, 8)

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%-*s%11s%11s%11s%11s", nameW, "Debt", "Balance", "Payment", "Rate", "Interest")))
	for i, d := range a.settings.Debts {
		interest := d.Balance.Mul(d.InterestRateAnnual).Div(twelve).Round(2)
		style := cell
		if d.MonthlyPayment.LessThanOrEqual(interest) && d.Balance.IsPositive() {
			style = warn
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-*s%11s%11s%11s%11s",
			nameW, truncStr(debtName(i, d), nameW-1),
			cli.FormatMoneyShort(d.Balance), cli.FormatMoneyShort(d.MonthlyPayment),
			cli.FormatRate(d.InterestRateAnnual), cli.FormatMoneyShort(interest))))
	}
	b.WriteString("\n\n")
	b.WriteString(head.Render("Total "))
	b.WriteString(cell.Render(cli.FormatMoney(a.settings.TotalDebt())))
	return b.String()
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
