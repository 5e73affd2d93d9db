package commands

import (
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/server"
	"github.com/livechat-history-viewer/pkg/logger"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live viewer",
		Long:  "Run the HTTP server that streams rendered sessions to browsers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := serveConfig(cmd, configFile)
			if err != nil {
				return err
			}
			log := logger.NewWithOptions(cmd.OutOrStdout(), cfg.Log.Level, cfg.Log.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file; environment variables override it")

	return cmd
}

// serveConfig loads the server configuration. An explicit --log-level wins
// over LOG_LEVEL and the config file.
func serveConfig(cmd *cobra.Command, configFile string) (*config.Config, error) {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	return cfg, nil
}
