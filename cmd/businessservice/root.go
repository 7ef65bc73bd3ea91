package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"business-service/internal/config"
	"business-service/pkg/logger"
)

var (
	envFile    string
	logLevel   string
	jsonOutput bool
	log        = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "businessservice",
	Short: "Role-based access control for the business application.",
	Long: `Serves the permission registry and authorization guards for the
business application, and inspects the role table from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		initLogger()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Enable JSON output")
}

func initLogger() {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	format := os.Getenv("LOG_FORMAT")
	if jsonOutput {
		format = logger.FormatJSON
	}
	log = logger.New(os.Stderr, level, format)
}

// presetFromEnv returns the preset named by flag, RBAC_PRESET, or the default.
func presetFromEnv(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv("RBAC_PRESET"); p != "" {
		return p
	}
	return "business"
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
