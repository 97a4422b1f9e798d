// Package cmd holds the finance-flags cobra commands.
package cmd

import (
	"fmt"

	"github.com/iwvelando/finance-flags/internal/config"
	"github.com/iwvelando/finance-flags/internal/logging"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by the subcommands once the root command has
// loaded configuration and built the logger.
type app struct {
	version    string
	configPath string
	logLevel   string

	conf   *config.Configuration
	logger *zap.Logger
}

// NewRootCommand builds the finance-flags command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:   "finance-flags",
		Short: "Evaluate financial risk flags for a company's financial document",
		Long: `finance-flags computes total revenue, the borrowing to revenue ratio and the
interest service coverage ratio of a company's reporting period and classifies
each against fixed thresholds.

Commands:
    serve       - HTTP server with upload form and JSON API
    evaluate    - evaluate a document from a file or stdin
    config      - print the effective configuration`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(a.serveCommand())
	rootCmd.AddCommand(a.evaluateCommand())
	rootCmd.AddCommand(a.configCommand())

	return rootCmd
}

// initialize loads .env, the configuration file and the logger.
func (a *app) initialize(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; settings may come from the real environment.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := logging.New(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.conf = conf
	a.logger = logger

	for _, warning := range conf.Warnings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cmd.initialize"),
		)
	}
	return nil
}
