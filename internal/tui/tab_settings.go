package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/tui/components"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// settingsState tracks the settings tab.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

// settingsField is one editable line of the settings tab.
type settingsField struct {
	label   string
	display func(model.ProjectionSettings) string
	raw     func(model.ProjectionSettings) string
	set     func(*model.ProjectionSettings, string) error
}

// decimalField binds a field to a decimal in the settings record.
func decimalField(label string, ptr func(*model.ProjectionSettings) *decimal.Decimal, display func(decimal.Decimal) string) settingsField {
	return settingsField{
		label: label,
		display: func(s model.ProjectionSettings) string {
			return display(*ptr(&s))
		},
		raw: func(s model.ProjectionSettings) string {
			return ptr(&s).String()
		},
		set: func(s *model.ProjectionSettings, v string) error {
			d, err := ParseAmount(v)
			if err != nil {
				return err
			}
			*ptr(s) = d
			return nil
		},
	}
}

var settingsFields = []settingsField{
	decimalField("Current balance", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.CurrentBalance }, cli.FormatMoney),
	decimalField("Monthly income", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.MonthlyIncome }, cli.FormatMoney),
	decimalField("Fixed expenses", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.MonthlyFixedExpenses }, cli.FormatMoney),
	decimalField("Variable expenses", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.MonthlyVariableExpenses }, cli.FormatMoney),
	decimalField("Investment balance", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.InvestmentBalance }, cli.FormatMoney),
	decimalField("Monthly contribution", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.InvestmentContributionMonthly }, cli.FormatMoney),
	decimalField("Annual return", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.InvestmentReturnAnnual }, cli.FormatRate),
	{
		label:   "Horizon (months)",
		display: func(s model.ProjectionSettings) string { return fmt.Sprintf("%d (%s)", s.HorizonMonths, cli.FormatMonths(s.HorizonMonths)) },
		raw:     func(s model.ProjectionSettings) string { return strconv.Itoa(s.HorizonMonths) },
		set: func(s *model.ProjectionSettings, v string) error {
			h, err := parseHorizon(v)
			if err != nil {
				return err
			}
			s.HorizonMonths = h
			return nil
		},
	},
	decimalField("Best income factor", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.ScenarioAdjustments.Best.Income }, cli.FormatFactor),
	decimalField("Best expense factor", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.ScenarioAdjustments.Best.Expense }, cli.FormatFactor),
	decimalField("Worst income factor", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.ScenarioAdjustments.Worst.Income }, cli.FormatFactor),
	decimalField("Worst expense factor", func(s *model.ProjectionSettings) *decimal.Decimal { return &s.ScenarioAdjustments.Worst.Expense }, cli.FormatFactor),
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	f := settingsFields[a.edit.cursor]

	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 24
	ti.Placeholder = f.raw(model.DefaultSettings())
	ti.SetValue(f.raw(a.settings))
	ti.Focus()

	a.edit.editing = true
	a.edit.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.edit.editing = false
		next := a.settings.Clone()
		if err := settingsFields[a.edit.cursor].set(&next, a.edit.input.Value()); err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		return a, saveSettingsCmd(a.repo, next, a.now())
	case "esc":
		a.edit.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.edit.input, cmd = a.edit.input.Update(msg)
	return a, cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selLabel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	selValue := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const labelW = 22

	var b strings.Builder
	for i, f := range settingsFields {
		if i > 0 {
			b.WriteString("\n")
		}
		if i != a.edit.cursor {
			b.WriteString(label.Render(fmt.Sprintf("  %-*s", labelW, f.label)) + value.Render(f.display(a.settings)))
			continue
		}
		b.WriteString(marker.Render("▸ ") + selLabel.Render(fmt.Sprintf("%-*s", labelW, f.label)))
		if a.edit.editing {
			b.WriteString(a.edit.input.View())
		} else {
			b.WriteString(selValue.Render(f.display(a.settings)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(label.Render(fmt.Sprintf("  %-*s", labelW, "Debts")) +
		value.Render(fmt.Sprintf("%d totalling %s (see the Debts tab)", len(a.settings.Debts), cli.FormatMoney(a.settings.TotalDebt()))))
	b.WriteString("\n")
	b.WriteString(label.Render(fmt.Sprintf("  %-*s", labelW, "Theme")) + value.Render(theme.Active.Name))

	b.WriteString("\n\n")
	if a.edit.editing {
		b.WriteString(dim.Render("  enter save · esc cancel · amounts accept $ , and %"))
	} else {
		b.WriteString(dim.Render("  j/k move · enter edit · t theme · w wizard"))
	}

	return components.ContentCard("Settings · "+a.householdLabel(), b.String(), cw)
}
