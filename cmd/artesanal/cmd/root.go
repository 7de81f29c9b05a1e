// Package cmd holds the artesanal CLI.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"artesanal/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "artesanal",
	Short: "Chocó Artesanal storefront node",
	Long:  "Offline-capable gateway and API for the Chocó Artesanal storefront.",
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig() (config.Config, error) {
	return config.Load()
}
