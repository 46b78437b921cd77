// @title Pet Health Core API
// @version 1.0
// @description Wellness tracking, alertas y links de perfil compartido para mascotas.
// @BasePath /
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pet-health-core/internal/platform/config"
	"pet-health-core/internal/platform/logger"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "api",
	Short:        "Pet health core HTTP service",
	SilenceUsage: true,
	// Sin subcomando => serve.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig lee la config y arma el logger. slog.Default queda apuntando al mismo handler.
func loadConfig() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if sl, ok := log.(*logger.SlogLogger); ok {
		slog.SetDefault(sl.Slog())
	}
	return cfg, log, nil
}
