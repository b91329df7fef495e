package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/runway/internal/export"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE.xlsx",
	Short: "Export every scenario to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("export file %q must end in .xlsx", path)
	}

	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	run, err := loadProjection(commandContext(cmd), repo)
	if err != nil {
		printValidation(err)
		return err
	}

	if err := export.WriteFile(path, run.settings, run.results); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Wrote %s (%d months, %d scenarios)\n", path, run.settings.HorizonMonths, len(run.results))
	}
	return nil
}
