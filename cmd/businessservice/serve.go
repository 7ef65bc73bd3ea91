package main

import (
	"github.com/spf13/cobra"

	"business-service/internal/app"
	"business-service/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		format := cfg.Log.Format
		if jsonOutput {
			format = logger.FormatJSON
		}
		log = logger.New(cmd.ErrOrStderr(), level, format)

		svc, err := app.InitializeService(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		return svc.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
