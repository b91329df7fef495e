package cmd

import (
	"fmt"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Household:        %s\n", household())
	fmt.Printf("    Default scenario: %s\n", cfg.General.DefaultScenario)
	if cfg.General.LogLevel != "" {
		fmt.Printf("    Log level:        %s\n", cfg.General.LogLevel)
	}
	fmt.Println()

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = cfg.DBPath()
	}
	fmt.Println("  [Storage]")
	fmt.Printf("    Database: %s\n", dbPath)
	if !flagEphemeral {
		if db, err := store.Open(dbPath, household()); err == nil {
			households, err := db.Households(commandContext(cmd))
			_ = db.Close()
			if err == nil {
				fmt.Printf("    Households: %d\n", len(households))
				for _, h := range households {
					fmt.Printf("      %-16s since %s\n", h.Name, h.CreatedAt.Local().Format("2006-01-02"))
				}
			}
		}
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.RefreshSchedule)
	fmt.Printf("    Events:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Chart height: %d\n", cfg.TUI.ChartHeight)
	fmt.Println()

	fmt.Println("  Run `runway setup` to reconfigure.")
	return nil
}
