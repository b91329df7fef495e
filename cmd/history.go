package cmd

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/cli"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Recent projection runs for the household",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	runs, err := repo.RecentRuns(commandContext(cmd), flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No projections recorded yet. Run `runway project` or `runway compare`.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		s := r.Summary
		rows = append(rows, []string{
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			s.Scenario.String(),
			cli.FormatMonths(s.Months),
			cli.MoneyCell(s.EndingCash),
			cli.MoneyCell(s.LowestCash),
			cli.OrDash(s.InsolventMonth),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Projection history  " + household(),
		Headers: []string{"Generated", "Scenario", "Horizon", "Ending Cash", "Lowest Cash", "Below Zero"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
