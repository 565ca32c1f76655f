// File: internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacity       = 10
	DefaultPollIntervalMs = 1000
	DefaultThumbnailSize  = 18
	DefaultMaxItemBytes   = 32 * 1024 * 1024

	envPrefix = "CLIPSTACK"
)

// Paths holds all relevant paths for the application
type Paths struct {
	ConfigDir  string // Directory containing config.yaml
	ConfigFile string // Path to the config file
	DataDir    string // Directory for application data
	DBFile     string // Path to database file
	LogDir     string // Directory for log files
	RunDir     string // Directory for the socket and pid file
	PIDFile    string // Path to the daemon pid file
}

// Config holds all application configuration
type Config struct {
	// History settings
	Capacity       int   `json:"capacity" yaml:"capacity"`
	PollIntervalMs int   `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	ThumbnailSize  int   `json:"thumbnail_size" yaml:"thumbnail_size"`
	MaxItemBytes   int64 `json:"max_item_bytes" yaml:"max_item_bytes"`

	// Logging configuration
	Log LogConfig `json:"log" yaml:"log"`

	// Storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Local socket configuration
	IPC IPCConfig `json:"ipc" yaml:"ipc"`

	// Desktop picker
	GUI GUIConfig `json:"gui" yaml:"gui"`

	// Resolved at load time, never written
	Paths Paths `json:"-" yaml:"-"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // auto, json or console
	File   bool   `json:"file" yaml:"file"`     // also write to <data>/logs
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// IPCConfig holds the local socket configuration
type IPCConfig struct {
	SocketPath string `json:"socket_path" yaml:"socket_path"`
}

// GUIConfig holds desktop picker settings
type GUIConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// GetPaths returns the platform-specific paths
func GetPaths() (Paths, error) {
	// First check environment variable for base directory
	configDir := os.Getenv("CLIPSTACK_CONFIG_DIR")
	if configDir == "" {
		userConfig, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, err
		}

		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(userConfig, "Clipstack")
		case "darwin":
			configDir = filepath.Join(userConfig, "com.berrythewa.clipstack")
		default: // Linux and others
			configDir = filepath.Join(userConfig, "clipstack")
		}
	}

	dataDir := os.Getenv("CLIPSTACK_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}

		switch runtime.GOOS {
		case "windows":
			if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
				dataDir = filepath.Join(localAppData, "Clipstack")
			} else {
				dataDir = filepath.Join(homeDir, "AppData", "Local", "Clipstack")
			}
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Clipstack")
		default: // Linux and others
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "clipstack")
			} else {
				dataDir = filepath.Join(homeDir, ".clipstack")
			}
		}
	}

	runDir := filepath.Join(dataDir, "run")
	return Paths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, "clipstack.db"),
		LogDir:     filepath.Join(dataDir, "logs"),
		RunDir:     runDir,
		PIDFile:    filepath.Join(runDir, "clipstack.pid"),
	}, nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetPaths()
	if err != nil {
		// no home directory; keep everything next to the temp dir
		base := filepath.Join(os.TempDir(), "clipstack")
		paths = Paths{
			ConfigDir:  base,
			ConfigFile: filepath.Join(base, "config.yaml"),
			DataDir:    base,
			DBFile:     filepath.Join(base, "clipstack.db"),
			LogDir:     filepath.Join(base, "logs"),
			RunDir:     filepath.Join(base, "run"),
			PIDFile:    filepath.Join(base, "run", "clipstack.pid"),
		}
	}

	return &Config{
		Capacity:       DefaultCapacity,
		PollIntervalMs: DefaultPollIntervalMs,
		ThumbnailSize:  DefaultThumbnailSize,
		MaxItemBytes:   DefaultMaxItemBytes,
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
			File:   true,
		},
		Storage: StorageConfig{DBPath: paths.DBFile},
		IPC:     IPCConfig{SocketPath: filepath.Join(paths.RunDir, "clipstack.sock")},
		Paths:   paths,
	}
}

// Load loads the configuration from the specified file or creates default if not exists.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		configPath = cfg.Paths.ConfigFile
	}
	cfg.Paths.ConfigFile = configPath

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Create default config if it doesn't exist
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the daemon cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("capacity must be positive, got %d", c.Capacity))
	}
	if c.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs))
	}
	if c.ThumbnailSize <= 0 {
		errs = append(errs, fmt.Errorf("thumbnail_size must be positive, got %d", c.ThumbnailSize))
	}
	if c.MaxItemBytes < 0 {
		errs = append(errs, fmt.Errorf("max_item_bytes must not be negative, got %d", c.MaxItemBytes))
	}
	switch c.Log.Format {
	case "", "auto", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be auto, json or console, got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// PollInterval returns the clipboard poll period
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// overrideFromEnv overrides configuration values from CLIPSTACK_* environment variables
func overrideFromEnv(c *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for key, env := range map[string]string{
		"capacity":         "CAPACITY",
		"poll_interval_ms": "POLL_INTERVAL_MS",
		"thumbnail_size":   "THUMBNAIL_SIZE",
		"max_item_bytes":   "MAX_ITEM_BYTES",
		"log_level":        "LOG_LEVEL",
		"log_format":       "LOG_FORMAT",
		"db_path":          "DB_PATH",
		"socket":           "SOCKET",
		"gui":              "GUI",
	} {
		// BindEnv errors only on a missing key name
		_ = v.BindEnv(key, envPrefix+"_"+env)
	}

	if v.IsSet("capacity") {
		c.Capacity = v.GetInt("capacity")
	}
	if v.IsSet("poll_interval_ms") {
		c.PollIntervalMs = v.GetInt("poll_interval_ms")
	}
	if v.IsSet("thumbnail_size") {
		c.ThumbnailSize = v.GetInt("thumbnail_size")
	}
	if v.IsSet("max_item_bytes") {
		c.MaxItemBytes = v.GetInt64("max_item_bytes")
	}
	if v.IsSet("log_level") {
		c.Log.Level = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		c.Log.Format = v.GetString("log_format")
	}
	if v.IsSet("db_path") {
		c.Storage.DBPath = v.GetString("db_path")
	}
	if v.IsSet("socket") {
		c.IPC.SocketPath = v.GetString("socket")
	}
	if v.IsSet("gui") {
		c.GUI.Enabled = v.GetBool("gui")
	}
}
