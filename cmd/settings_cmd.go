package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// decimalFlag is a pflag.Value holding an optional decimal.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

var _ pflag.Value = (*decimalFlag)(nil)

func (f *decimalFlag) String() string {
	if !f.set {
		return ""
	}
	return f.value.String()
}

func (f *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", ""))
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f.value = d
	f.set = true
	return nil
}

func (f *decimalFlag) Type() string { return "decimal" }

// apply writes the flag into dst when it was given.
func (f *decimalFlag) apply(dst *decimal.Decimal) {
	if f.set {
		*dst = f.value
	}
}

var (
	setBalance      decimalFlag
	setIncome       decimalFlag
	setFixed        decimalFlag
	setVariable     decimalFlag
	setInvestment   decimalFlag
	setContribution decimalFlag
	setReturn       decimalFlag
	setBestIncome   decimalFlag
	setBestExpense  decimalFlag
	setWorstIncome  decimalFlag
	setWorstExpense decimalFlag

	flagSetHorizon    int
	flagSetDebts      []string
	flagSetClearDebts bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the household's projection settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change projection settings",
	Example: "  runway settings set --income 5200 --fixed 2100 --variable 900\n" +
		"  runway settings set --clear-debts --debt car:8400:310:0.069 --debt card:1200:150:0.229",
	RunE: runSettingsSet,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write settings to a .yaml, .toml or .json file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsExport,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace settings with the contents of a .yaml, .toml or .json file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImport,
}

func init() {
	f := settingsSetCmd.Flags()
	f.Var(&setBalance, "balance", "Current cash balance (may be negative)")
	f.Var(&setIncome, "income", "Monthly income")
	f.Var(&setFixed, "fixed", "Monthly fixed expenses")
	f.Var(&setVariable, "variable", "Monthly variable expenses")
	f.Var(&setInvestment, "investments", "Current investment balance")
	f.Var(&setContribution, "contribution", "Monthly investment contribution")
	f.Var(&setReturn, "return", "Annual investment return as a fraction (0.06 = 6%)")
	f.Var(&setBestIncome, "best-income", "Best-case income factor")
	f.Var(&setBestExpense, "best-expense", "Best-case expense factor")
	f.Var(&setWorstIncome, "worst-income", "Worst-case income factor")
	f.Var(&setWorstExpense, "worst-expense", "Worst-case expense factor")
	f.IntVar(&flagSetHorizon, "months", 0, "Projection horizon in months")
	f.StringArrayVar(&flagSetDebts, "debt", nil, "Add a debt as name:balance:payment:rate (repeatable)")
	f.BoolVar(&flagSetClearDebts, "clear-debts", false, "Remove every debt before adding --debt entries")

	settingsCmd.AddCommand(settingsSetCmd, settingsExportCmd, settingsImportCmd)
	rootCmd.AddCommand(settingsCmd)
}

// parseDebt reads name:balance:payment:rate. The name may be empty and the
// rate may be omitted.
func parseDebt(entry string) (model.Debt, error) {
	parts := strings.Split(entry, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.Debt{}, fmt.Errorf("debt %q: want name:balance:payment:rate", entry)
	}

	d := model.Debt{Name: strings.TrimSpace(parts[0])}
	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"balance", &d.Balance},
		{"payment", &d.MonthlyPayment},
		{"rate", &d.InterestRateAnnual},
	}
	for i, raw := range parts[1:] {
		var v decimalFlag
		if err := v.Set(raw); err != nil {
			return model.Debt{}, fmt.Errorf("debt %q %s: %w", entry, fields[i].name, err)
		}
		*fields[i].dst = v.value
	}
	return d, nil
}

// applySettingsFlags folds the set flags into s.
func applySettingsFlags(s *model.ProjectionSettings) error {
	setBalance.apply(&s.CurrentBalance)
	setIncome.apply(&s.MonthlyIncome)
	setFixed.apply(&s.MonthlyFixedExpenses)
	setVariable.apply(&s.MonthlyVariableExpenses)
	setInvestment.apply(&s.InvestmentBalance)
	setContribution.apply(&s.InvestmentContributionMonthly)
	setReturn.apply(&s.InvestmentReturnAnnual)
	setBestIncome.apply(&s.ScenarioAdjustments.Best.Income)
	setBestExpense.apply(&s.ScenarioAdjustments.Best.Expense)
	setWorstIncome.apply(&s.ScenarioAdjustments.Worst.Income)
	setWorstExpense.apply(&s.ScenarioAdjustments.Worst.Expense)
	if flagSetHorizon != 0 {
		s.HorizonMonths = flagSetHorizon
	}

	if flagSetClearDebts {
		s.Debts = nil
	}
	for _, entry := range flagSetDebts {
		d, err := parseDebt(entry)
		if err != nil {
			return err
		}
		s.Debts = append(s.Debts, d)
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	s, err := repo.Load(commandContext(cmd))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RUNWAY  settings  " + household()))
	fmt.Println()
	printSettings(s)
	return nil
}

func printSettings(s model.ProjectionSettings) {
	updated := "never saved"
	if !s.UpdatedAt.IsZero() {
		updated = s.UpdatedAt.Local().Format("2006-01-02 15:04")
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Household",
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Current balance", cli.MoneyCell(s.CurrentBalance)},
			{"Monthly income", cli.FormatMoney(s.MonthlyIncome)},
			{"Fixed expenses", cli.FormatMoney(s.MonthlyFixedExpenses)},
			{"Variable expenses", cli.FormatMoney(s.MonthlyVariableExpenses)},
			{"---"},
			{"Investment balance", cli.FormatMoney(s.InvestmentBalance)},
			{"Monthly contribution", cli.FormatMoney(s.InvestmentContributionMonthly)},
			{"Annual return", cli.FormatRate(s.InvestmentReturnAnnual)},
			{"---"},
			{"Horizon", fmt.Sprintf("%d months (%s)", s.HorizonMonths, cli.FormatMonths(s.HorizonMonths))},
			{"Best case", fmt.Sprintf("income %s  expenses %s", cli.FormatFactor(s.ScenarioAdjustments.Best.Income), cli.FormatFactor(s.ScenarioAdjustments.Best.Expense))},
			{"Worst case", fmt.Sprintf("income %s  expenses %s", cli.FormatFactor(s.ScenarioAdjustments.Worst.Income), cli.FormatFactor(s.ScenarioAdjustments.Worst.Expense))},
			{"Last saved", updated},
		},
	}))

	if len(s.Debts) == 0 {
		fmt.Println()
		fmt.Println("  No debts. Add one with `runway settings set --debt name:balance:payment:rate`.")
		fmt.Println()
		return
	}

	rows := make([][]string, 0, len(s.Debts)+2)
	for i, d := range s.Debts {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("debt %d", i+1)
		}
		rows = append(rows, []string{name, cli.FormatMoney(d.Balance), cli.FormatMoney(d.MonthlyPayment), cli.FormatRate(d.InterestRateAnnual)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoney(s.TotalDebt()), "", ""})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Debts",
		Headers: []string{"Debt", "Balance", "Payment", "Rate"},
		Rows:    rows,
	}))
	fmt.Println()
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().NFlag() == 0 {
		return errors.New("nothing to change; see `runway settings set --help`")
	}

	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	ctx := commandContext(cmd)
	s, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := applySettingsFlags(&s); err != nil {
		return err
	}

	saved, err := repo.Save(ctx, s)
	if err != nil {
		printValidation(err)
		return err
	}

	if !flagQuiet {
		fmt.Println()
		fmt.Printf("  Saved settings for %s\n", household())
		fmt.Println()
		printSettings(saved)
	}
	return nil
}

func runSettingsExport(cmd *cobra.Command, args []string) error {
	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	s, err := repo.Load(commandContext(cmd))
	if err != nil {
		return err
	}
	if err := config.WriteSettingsFile(args[0], s); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Wrote %s\n", args[0])
	}
	return nil
}

func runSettingsImport(cmd *cobra.Command, args []string) error {
	s, err := config.ReadSettingsFile(args[0])
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	saved, err := repo.Save(commandContext(cmd), s)
	if err != nil {
		printValidation(err)
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Imported %s into %s (%d debts)\n", args[0], household(), len(saved.Debts))
	}
	return nil
}

// commandContext returns cmd's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
