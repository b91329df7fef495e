package cmd

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"

	"github.com/spf13/cobra"
)

var flagProjectMoM bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Month-by-month projection for one scenario",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().BoolVar(&flagProjectMoM, "mom", false, "Add a month-over-month cash change column")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	sc, err := activeScenario()
	if err != nil {
		return err
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

	months := run.results[sc]
	sum := projection.Summarize(run.settings, sc, months)
	recordRuns(ctx, repo, []model.ProjectionSummary{sum})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RUNWAY  %s  %s scenario", household(), sc)))
	fmt.Println()

	fmt.Print(cli.RenderTable(monthTable(run.settings, months, flagProjectMoM)))
	fmt.Println()
	fmt.Print(cli.RenderTable(summaryTable(run.settings, sum)))

	for _, w := range projectionWarnings(run.settings, sum) {
		fmt.Println(cli.Warn(w))
	}
	fmt.Println()
	return nil
}

func monthTable(settings model.ProjectionSettings, months []model.ProjectionMonth, withMoM bool) cli.Table {
	headers := []string{"Month", "Income", "Expenses", "Debt Paid", "Net Flow", "Cash", "Debt Left", "Investments"}
	if withMoM {
		headers = append(headers, "Cash MoM")
	}

	var mom []string
	if withMoM {
		for _, p := range projection.MonthOverMonth(settings.CurrentBalance, months) {
			mom = append(mom, cli.FormatPercent(p))
		}
	}

	rows := make([][]string, 0, len(months))
	for i, m := range months {
		row := []string{
			m.Label,
			cli.FormatMoney(m.Income),
			cli.FormatMoney(m.Expenses),
			cli.FormatMoney(m.DebtPayment),
			cli.MoneyCell(m.NetCashFlow),
			cli.MoneyCell(m.CumulativeCash),
			cli.FormatMoney(m.DebtBalance),
			cli.FormatMoney(m.InvestmentValue),
		}
		if withMoM {
			row = append(row, mom[i])
		}
		rows = append(rows, row)
	}

	return cli.Table{
		Title:   "Months",
		Headers: headers,
		Rows:    rows,
	}
}

func summaryTable(settings model.ProjectionSettings, sum model.ProjectionSummary) cli.Table {
	return cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Horizon", cli.FormatMonths(sum.Months)},
			{"Starting cash", cli.MoneyCell(settings.CurrentBalance)},
			{"Ending cash", cli.MoneyCell(sum.EndingCash)},
			{"Lowest cash", cli.MoneyCell(sum.LowestCash) + cli.Muted(" "+sum.LowestCashMonth)},
			{"---"},
			{"Total income", cli.FormatMoney(sum.TotalIncome)},
			{"Total expenses", cli.FormatMoney(sum.TotalExpenses)},
			{"Debt paid", cli.FormatMoney(sum.TotalDebtPaid)},
			{"Interest", cli.FormatMoney(sum.InterestAccrued)},
			{"---"},
			{"Debt at horizon", cli.FormatMoney(sum.EndingDebt)},
			{"Debt-free", cli.OrDash(sum.DebtFreeMonth)},
			{"Investments", cli.FormatMoney(sum.EndingInvestment)},
			{"Net worth", cli.MoneyCell(sum.EndingNetWorth)},
		},
	}
}

// projectionWarnings flags outcomes worth a second look.
func projectionWarnings(settings model.ProjectionSettings, sum model.ProjectionSummary) []string {
	var out []string
	if sum.InsolventMonth != "" {
		out = append(out, fmt.Sprintf("cash goes negative in %s", sum.InsolventMonth))
	}
	if sum.EndingDebt.GreaterThan(settings.TotalDebt()) {
		out = append(out, "debt grows over the horizon; a payment is below its interest")
	}
	return out
}
