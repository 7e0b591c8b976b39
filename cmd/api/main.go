package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-scheduling/internal/config"
	"github.com/jwalitptl/hospital-scheduling/pkg/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "hospital-api",
		Short:         "Hospital scheduling administration API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml")

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), eventsCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the global logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	l := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	l.SetGlobal()
	return cfg, l, nil
}
