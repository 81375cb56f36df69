package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sf-parking-zones/internal/app"
	"github.com/sf-parking-zones/internal/config"
	"github.com/sf-parking-zones/internal/pkg/errors"
	"github.com/sf-parking-zones/internal/pkg/logger"
)

type globalFlags struct {
	envFile      string
	zonesPath    string
	settingsPath string
	logLevel     string
	json         bool
}

var (
	flags globalFlags
	a     *app.App
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "parkctl",
		Short:         "San Francisco parking zones: lookups, sessions and the zone data pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				_ = a.Close()
				_ = a.Logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env", ".env", "dotenv file with configuration")
	pf.StringVar(&flags.zonesPath, "zones", "", "zone asset (overrides DATA_ZONES_PATH)")
	pf.StringVar(&flags.settingsPath, "settings", "", "device settings file (overrides DATA_SETTINGS_PATH)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	pf.BoolVar(&flags.json, "json", false, "print results as JSON")

	root.AddCommand(
		newLookupCmd(),
		newParkUntilCmd(),
		newSessionCmd(),
		newSettingsCmd(),
		newSimplifyCmd(),
		newCompareCmd(),
		newPresetCmd(),
		newValidateCmd(),
		newPipelineCmd(),
	)
	return root
}

func setup(ctx context.Context) error {
	// .env.local overrides .env for local runs
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadFrom(flags.envFile)
	if err != nil {
		return err
	}
	if flags.zonesPath != "" {
		cfg.Data.ZonesPath = flags.zonesPath
	}
	if flags.settingsPath != "" {
		cfg.Data.SettingsPath = flags.settingsPath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	log, err := logger.NewWithOutput(cfg.Log.Level, "stderr")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Debug("Configuration loaded",
		zap.String("zones", cfg.Data.ZonesPath),
		zap.String("settings", cfg.Data.SettingsPath),
		zap.String("timezone", cfg.Rules.TimeZone),
		zap.Bool("redis", cfg.Redis.Enabled))

	a, err = app.New(ctx, cfg, log)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold)
	appErr := errors.As(err)
	if appErr.Code == errors.ErrUnknown.Code {
		red.Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		return
	}

	red.Fprintf(os.Stderr, "%s: ", appErr.Code)
	fmt.Fprintln(os.Stderr, appErr.Message)
	for k, v := range appErr.Details {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", k, v)
	}
	switch appErr.Action {
	case errors.ActionRetry:
		color.New(color.FgYellow).Fprintln(os.Stderr, "Try again in a moment.")
	case errors.ActionOpenSettings:
		color.New(color.FgYellow).Fprintln(os.Stderr, "Open Settings to fix this.")
	}
}
