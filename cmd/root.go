// Package cmd implements the runway CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/runway/internal/cli"
	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/logging"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/projection"
	"github.com/theirongolddev/runway/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagHousehold string
	flagDBPath    string
	flagScenario  string
	flagHorizon   int
	flagQuiet     bool
	flagLogLevel  string
	flagEphemeral bool
	flagSeedFile  string
)

// appConfig is loaded once per invocation by the root pre-run hook.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Household cash-flow projections",
	Long: "Project a household's cash, debt and investments month by month\n" +
		"under base, best and worst scenarios.",
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHousehold, "household", "", "Household name (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Settings database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "s", "", "Scenario: base, best or worst (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagHorizon, "horizon", 0, "Override the projection horizon in months for this run")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep settings in memory only; nothing is written to disk")
	rootCmd.PersistentFlags().StringVar(&flagSeedFile, "from", "", "Seed an --ephemeral run from a settings file (.yaml, .toml or .json)")
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	fallback := slog.LevelWarn
	if cmd == daemonCmd {
		fallback = slog.LevelInfo
	}
	levelName := flagLogLevel
	if levelName == "" {
		levelName = cfg.General.LogLevel
	}
	level, err := logging.ParseLevel(levelName, fallback)
	if err != nil {
		return err
	}
	logging.Setup(level)

	if flagSeedFile != "" && !flagEphemeral {
		return errors.New("--from requires --ephemeral (use `runway settings import` to persist a file)")
	}
	return nil
}

// settingsStore is what every command needs from a store.
type settingsStore interface {
	store.Repository
	store.RunRecorder
}

// household resolves the active household name.
func household() string {
	switch {
	case flagHousehold != "":
		return flagHousehold
	case appConfig.General.Household != "":
		return appConfig.General.Household
	default:
		return store.DefaultHousehold
	}
}

// activeScenario resolves --scenario against the configured default.
func activeScenario() (model.Scenario, error) {
	name := flagScenario
	if name == "" {
		name = appConfig.General.DefaultScenario
	}
	if name == "" {
		return model.ScenarioBase, nil
	}
	return model.ParseScenario(name)
}

// openRepo opens the settings store for the active household. The returned
// close func must always be called.
func openRepo() (settingsStore, func() error, error) {
	if flagEphemeral {
		var seed *model.ProjectionSettings
		if flagSeedFile != "" {
			s, err := config.ReadSettingsFile(flagSeedFile)
			if err != nil {
				return nil, nil, err
			}
			seed = &s
		}
		return store.NewMemory(seed), func() error { return nil }, nil
	}

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = appConfig.DBPath()
	}
	db, err := store.Open(dbPath, household())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("opened settings store", "path", dbPath, "household", db.HouseholdName())
	return db, db.Close, nil
}

// projectionRun is the loaded settings plus every scenario's months.
type projectionRun struct {
	settings model.ProjectionSettings
	results  map[model.Scenario][]model.ProjectionMonth
	took     time.Duration
}

// loadProjection reads settings, applies --horizon and generates all scenarios.
func loadProjection(ctx context.Context, repo store.Repository) (projectionRun, error) {
	settings, err := repo.Load(ctx)
	if err != nil {
		return projectionRun{}, fmt.Errorf("loading settings: %w", err)
	}
	if flagHorizon != 0 {
		settings.HorizonMonths = flagHorizon
	}

	t0 := time.Now()
	results, err := projection.GenerateAll(settings, time.Now())
	if err != nil {
		return projectionRun{}, err
	}
	run := projectionRun{settings: settings, results: results, took: time.Since(t0)}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Projected %s months x %d scenarios in %s\n",
			cli.FormatNumber(int64(settings.HorizonMonths)), len(results), run.took.Round(time.Microsecond))
	}
	return run, nil
}

// recordRuns stores one history row per summary. Failures are logged only.
func recordRuns(ctx context.Context, rec store.RunRecorder, sums []model.ProjectionSummary) {
	for _, s := range sums {
		if _, err := rec.RecordRun(ctx, s); err != nil {
			slog.Warn("recording projection run", "scenario", s.Scenario, "err", err)
			return
		}
	}
}

// printValidation lists field errors before a command fails.
func printValidation(err error) {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		fmt.Println()
		for _, v := range verrs {
			fmt.Printf("  %s: %s\n", v.Field, v.Reason)
		}
		fmt.Println()
	}
}
