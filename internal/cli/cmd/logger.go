package cmd

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/config"
	"github.com/berrythewa/clipstack/pkg/utils"
)

// LogFileName is the daemon log under the data directory's logs/
const LogFileName = "clipstack.log"

// SetupLogger creates the zap logger for a command. The daemon also tees to
// the log file when the config asks for it.
func SetupLogger(cfg *config.Config, daemonMode bool) (*zap.Logger, error) {
	opts := utils.LoggerOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}
	if daemonMode && cfg.Log.File {
		opts.LogFile = LogPath(cfg)
	}
	if !daemonMode && cfg.Log.Level == "info" {
		// client commands print their results; keep routine logs quiet
		opts.Level = "warn"
	}

	logger, cleanup, err := utils.NewLogger(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	logCleanup = cleanup
	return logger, nil
}

// LogPath returns the daemon log file path
func LogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, LogFileName)
}

func closeLogger() {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}
