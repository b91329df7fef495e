package cmd

import (
	"fmt"
	"log/slog"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui"
	"github.com/theirongolddev/runway/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	sc, err := activeScenario()
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	current, err := repo.Load(commandContext(cmd))
	if err != nil {
		return err
	}

	app := tui.NewApp(repo, tui.Options{
		Household:   household(),
		Scenario:    sc,
		ChartHeight: appConfig.TUI.ChartHeight,
		FirstRun:    current.UpdatedAt.IsZero() && !flagEphemeral,
		SaveTheme: func(name string) error {
			if flagEphemeral {
				return nil
			}
			cfg := appConfig
			cfg.Appearance.Theme = name
			if err := config.Save(cfg); err != nil {
				return err
			}
			appConfig = cfg
			slog.Debug("saved theme", "theme", name)
			return nil
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
