package cmd

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagCompareStep int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Base, best and worst scenarios side by side",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().IntVar(&flagCompareStep, "step", 1, "Show every Nth month in the cash table")
	rootCmd.AddCommand(compareCmd)
}

// diffLabels names the projection.CompareMonths fields.
var diffLabels = map[string]string{
	"income":           "Income",
	"expenses":         "Expenses",
	"debt_payment":     "Debt payment",
	"net_cash_flow":    "Net flow",
	"cumulative_cash":  "Cash",
	"debt_balance":     "Debt",
	"investment_value": "Investments",
	"net_worth":        "Net worth",
}

// invertedDiffs are fields where an increase is bad news.
var invertedDiffs = map[string]bool{
	"expenses":     true,
	"debt_payment": true,
	"debt_balance": true,
}

func runCompare(cmd *cobra.Command, _ []string) error {
	if flagCompareStep < 1 {
		return fmt.Errorf("--step must be at least 1, got %d", flagCompareStep)
	}

	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	ctx := commandContext(cmd)

	run, err := loadProjection(ctx, repo)
	if err != nil {
		printValidation(err)
		return err
	}
	sums := projection.SummarizeAll(run.settings, run.results)
	recordRuns(ctx, repo, sums)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RUNWAY  %s  scenario comparison", household())))
	fmt.Println()

	fmt.Print(cli.RenderTable(cashByScenarioTable(run.results, flagCompareStep)))
	fmt.Println()

	fmt.Println("  " + cli.Muted("Cash trend"))
	for _, sc := range model.AllScenarios {
		fmt.Printf("  %-6s %s\n", sc, cli.RenderSparkline(projection.CashSeries(run.results[sc])))
	}
	fmt.Println()

	fmt.Print(cli.RenderTable(horizonDiffTable(run.results)))
	fmt.Println()

	renderNetWorthBars(sums)
	renderDebtPayoff(run.settings, sums)

	for _, s := range sums {
		if s.InsolventMonth != "" {
			fmt.Println(cli.Warn(fmt.Sprintf("%s: cash goes negative in %s", s.Scenario, s.InsolventMonth)))
		}
	}
	fmt.Println()
	return nil
}

func cashByScenarioTable(results map[model.Scenario][]model.ProjectionMonth, step int) cli.Table {
	base := results[model.ScenarioBase]
	headers := []string{"Month"}
	for _, sc := range model.AllScenarios {
		headers = append(headers, sc.String())
	}

	var rows [][]string
	for i := 0; i < len(base); i++ {
		// the final month is always shown
		if i%step != 0 && i != len(base)-1 {
			continue
		}
		row := []string{base[i].Label}
		for _, sc := range model.AllScenarios {
			months := results[sc]
			if i >= len(months) {
				row = append(row, "")
				continue
			}
			row = append(row, cli.MoneyCell(months[i].CumulativeCash))
		}
		rows = append(rows, row)
	}

	return cli.Table{
		Title:   "Cumulative cash",
		Headers: headers,
		Rows:    rows,
	}
}

func horizonDiffTable(results map[model.Scenario][]model.ProjectionMonth) cli.Table {
	diffs := projection.CompareScenarios(results)
	headers := []string{"At horizon", "base"}
	for _, d := range diffs {
		headers = append(headers, d.Scenario.String(), "vs base", "%")
	}

	if len(diffs) == 0 {
		return cli.Table{Title: "Scenario deltas", Headers: headers}
	}

	var rows [][]string
	for i, first := range diffs[0].Diffs {
		row := []string{diffLabels[first.Field], cli.MoneyCell(first.Current)}
		for _, sd := range diffs {
			d := sd.Diffs[i]
			row = append(row,
				cli.MoneyCell(d.Simulated),
				cli.DeltaCell(d.Current, d.Simulated, invertedDiffs[d.Field]),
				cli.FormatPercent(d.PercentChange),
			)
		}
		rows = append(rows, row)
	}

	return cli.Table{
		Title:   "Scenario deltas",
		Headers: headers,
		Rows:    rows,
	}
}

func renderNetWorthBars(sums []model.ProjectionSummary) {
	peak := 0.0
	for _, s := range sums {
		peak = max(peak, s.EndingNetWorth.InexactFloat64())
	}

	fmt.Println("  " + cli.Muted("Net worth at horizon"))
	for _, s := range sums {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-6s", s.Scenario),
			s.EndingNetWorth.InexactFloat64(), peak, 30, cli.FormatMoney(s.EndingNetWorth)))
	}
	fmt.Println()
}

func renderDebtPayoff(settings model.ProjectionSettings, sums []model.ProjectionSummary) {
	opening := settings.TotalDebt()
	if !opening.IsPositive() {
		return
	}

	fmt.Println("  " + cli.Muted("Debt repaid by horizon"))
	for _, s := range sums {
		paid := decimal.NewFromInt(1).Sub(s.EndingDebt.Div(opening))
		fmt.Printf("  %-6s %s  %s\n", s.Scenario, cli.RenderProgressBar(paid.InexactFloat64(), 30), cli.OrDash(s.DebtFreeMonth))
	}
	fmt.Println()
}
