package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvn-koech/car-rental-management-system/internal/config"
	"github.com/kvn-koech/car-rental-management-system/internal/logger"
)

var (
	// Global flags
	envFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "carrental",
	Short: "Car rental management backend",
	Long: `Car rental management backend: REST API for the fleet, user accounts
and bookings, plus database migrations and the booking event consumer.

Commands:
  serve    - Start the HTTP API
  migrate  - Apply or roll back database migrations
  consume  - Write booking status events to the booking log`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file loaded before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, consumeCmd)
}

// bootstrap loads configuration and installs the structured logger.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.Setup(cfg.Log.Level), nil
}
