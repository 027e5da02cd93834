/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yojanasetu/apiserver/config"
	"github.com/yojanasetu/apiserver/internal/server"
	"go.uber.org/zap"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the auth/profile API server",
	Long: `Starts the auth/profile API server. Usage:

	apiserver server
`,
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := zap.NewProduction()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		cfg := config.LoadConfig()

		srv, err := server.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}

		runUntilSignal(logger, srv.Start, srv.Shutdown)
	},
}

// runUntilSignal runs the server until SIGINT/SIGTERM, then shuts it down
// with a grace period.
func runUntilSignal(logger *zap.Logger, start func() error, shutdown func(context.Context) error) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start()
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-sigCtx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
