package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues backs the setup wizard. Amounts are kept as text so the form
// can show exactly what the user typed.
type SetupValues struct {
	CurrentBalance         string
	MonthlyIncome          string
	FixedExpenses          string
	VariableExpenses       string
	InvestmentBalance      string
	InvestmentContribution string
	InvestmentReturn       string
	Horizon                string
	Theme                  string
}

// SetupValuesFrom pre-fills the wizard from the stored settings.
func SetupValuesFrom(s model.ProjectionSettings, themeName string) *SetupValues {
	return &SetupValues{
		CurrentBalance:         s.CurrentBalance.String(),
		MonthlyIncome:          s.MonthlyIncome.String(),
		FixedExpenses:          s.MonthlyFixedExpenses.String(),
		VariableExpenses:       s.MonthlyVariableExpenses.String(),
		InvestmentBalance:      s.InvestmentBalance.String(),
		InvestmentContribution: s.InvestmentContributionMonthly.String(),
		InvestmentReturn:       s.InvestmentReturnAnnual.String(),
		Horizon:                strconv.Itoa(s.HorizonMonths),
		Theme:                  themeName,
	}
}

// Apply parses the wizard values onto a copy of base. The result is not
// validated; the repository does that on save.
func (v SetupValues) Apply(base model.ProjectionSettings) (model.ProjectionSettings, error) {
	out := base.Clone()

	fields := []struct {
		name string
		text string
		dst  *decimal.Decimal
	}{
		{"current balance", v.CurrentBalance, &out.CurrentBalance},
		{"monthly income", v.MonthlyIncome, &out.MonthlyIncome},
		{"fixed expenses", v.FixedExpenses, &out.MonthlyFixedExpenses},
		{"variable expenses", v.VariableExpenses, &out.MonthlyVariableExpenses},
		{"investment balance", v.InvestmentBalance, &out.InvestmentBalance},
		{"investment contribution", v.InvestmentContribution, &out.InvestmentContributionMonthly},
		{"investment return", v.InvestmentReturn, &out.InvestmentReturnAnnual},
	}
	for _, f := range fields {
		d, err := ParseAmount(f.text)
		if err != nil {
			return model.ProjectionSettings{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = d
	}

	h, err := parseHorizon(v.Horizon)
	if err != nil {
		return model.ProjectionSettings{}, err
	}
	out.HorizonMonths = h
	return out, nil
}

// ParseAmount reads a money amount or rate. Currency symbols, thousands
// separators and a trailing percent sign are accepted; "7%" parses as 0.07.
// Blank input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Replace(s, "$", "", 1)
	if s == "" {
		return decimal.Zero, nil
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, nil
}

func parseHorizon(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("horizon %q is not a whole number of months", s)
	}
	return h, nil
}

func validateAmount(s string) error {
	_, err := ParseAmount(s)
	return err
}

func validateNonNegative(s string) error {
	d, err := ParseAmount(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validateHorizon(s string) error {
	h, err := parseHorizon(s)
	if err != nil {
		return err
	}
	if h < 1 || h > model.MaxHorizonMonths {
		return fmt.Errorf("must be between 1 and %d", model.MaxHorizonMonths)
	}
	return nil
}

// NewSetupForm builds the settings wizard bound to v. It is run standalone
// by `runway setup` and embedded in the dashboard on first launch.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to runway").
				Description("A few numbers about where you stand today.\nDebts are managed with `runway settings set --debt`."),
			huh.NewInput().Title("Current cash balance").
				Description("May be negative if you are overdrawn.").
				Value(&v.CurrentBalance).Validate(validateAmount),
			huh.NewInput().Title("Monthly income").
				Value(&v.MonthlyIncome).Validate(validateNonNegative),
			huh.NewInput().Title("Fixed monthly expenses").
				Description("Rent, insurance, subscriptions.").
				Value(&v.FixedExpenses).Validate(validateNonNegative),
			huh.NewInput().Title("Variable monthly expenses").
				Description("Groceries, fuel, going out.").
				Value(&v.VariableExpenses).Validate(validateNonNegative),
		),
		huh.NewGroup(
			huh.NewInput().Title("Investment balance").
				Value(&v.InvestmentBalance).Validate(validateNonNegative),
			huh.NewInput().Title("Monthly investment contribution").
				Value(&v.InvestmentContribution).Validate(validateNonNegative),
			huh.NewInput().Title("Expected annual return").
				Description("A fraction or a percentage: 0.07 or 7%.").
				Value(&v.InvestmentReturn).Validate(validateAmount),
			huh.NewInput().Title("Horizon (months)").
				Value(&v.Horizon).Validate(validateHorizon),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	)
}
