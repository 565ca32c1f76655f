package cmd

import (
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/config"
)

// Shared variables across all commands
var (
	cfg        *config.Config
	zapLogger  *zap.Logger
	logCleanup func()
)

// SetConfig sets the configuration for commands
func SetConfig(config *config.Config) {
	cfg = config
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}

// GetZapLogger returns the command logger, or a no-op logger before setup
func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}
