/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yojanasetu/apiserver/config"
	"github.com/yojanasetu/apiserver/internal/server"
	"go.uber.org/zap"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Starts the scheme suggestion API server",
	Long: `Starts the scheme suggestion API server. It runs as its own
process on its own port, mirroring the deployment split between the auth
API and the suggestion service. Usage:

	apiserver suggest
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := zap.NewProduction()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		cfg := config.LoadConfig()

		srv, err := server.NewSuggest(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Fatal("failed to start suggestion server", zap.Error(err))
		}

		runUntilSignal(logger, srv.Start, srv.Shutdown)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
