// Package commands implements the chatfeed subcommands.
package commands

import (
	"path/filepath"

	"github.com/livechat-history-viewer/internal/bridge"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultArchiveFile = "output.json"

// commandLogger builds a console logger on stderr honoring --log-level
func commandLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.NewWithOptions(cmd.ErrOrStderr(), level, "pretty")
}

func loadArchiveDir(dir, archiveFile string) ([]models.Session, error) {
	return bridge.LoadArchive(filepath.Join(dir, archiveFile))
}
