package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/tui"
	"github.com/theirongolddev/runway/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive wizard for the household settings and theme",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	repo, closeRepo, err := openRepo()
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	ctx := commandContext(cmd)
	current, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	themeName := appConfig.Appearance.Theme
	if _, ok := theme.Lookup(themeName); !ok {
		themeName = theme.FlexokiDark.Name
	}
	vals := tui.SetupValuesFrom(current, themeName)

	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	next, err := vals.Apply(current)
	if err != nil {
		return err
	}
	saved, err := repo.Save(ctx, next)
	if err != nil {
		printValidation(err)
		return err
	}

	cfg := appConfig
	cfg.Appearance.Theme = vals.Theme
	if cfg.General.Household == "" || flagHousehold != "" {
		cfg.General.Household = household()
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved settings for %s.\n", household())
	fmt.Printf("  Config: %s\n", config.ConfigPath())
	fmt.Println()
	printSettings(saved)
	fmt.Println("  Try `runway compare` or `runway tui`.")
	fmt.Println()
	return nil
}
