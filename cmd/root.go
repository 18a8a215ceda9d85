package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/svitlo/app"
	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/core/monitoring"
	"github.com/kilianp07/svitlo/infra/logger"
	inframon "github.com/kilianp07/svitlo/infra/monitoring"
)

var (
	cfgPath string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "svitlo",
	Short:         "Fetch outage schedules and publish the GPV document",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.RunE = runOnce
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the dotenv file when present, then the config. A missing
// default config file falls back to defaults and environment.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	path := cfgPath
	if _, err := os.Stat(path); os.IsNotExist(err) && !rootCmd.PersistentFlags().Changed("config") {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// offline turns off the outputs that reach other systems.
func offline(cfg *config.Config) {
	cfg.MQTT.Enabled = false
	cfg.Storage.Enabled = false
}

// setup loads the config, installs error monitoring and builds the service.
func setup(adjust ...func(*config.Config)) (*app.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	for _, fn := range adjust {
		fn(cfg)
	}
	mon, err := inframon.NewSentryMonitor(cfg.Sentry, cfg.Region.ID)
	if err != nil {
		return nil, nil, err
	}
	monitoring.Init(mon)
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
		monitoring.Flush(2 * time.Second)
	}
	return svc, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()
	rec, err := svc.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: changed=%t generated=%d skipped=%d failed_queues=%d\n",
		rec.ID, rec.Changed, rec.Generated, rec.Skipped, len(rec.Failed))
	return nil
}
