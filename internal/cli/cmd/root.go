// Package cmd holds the clipstack command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipstack/internal/config"
)

var (
	// Global flags
	configFile string
	logLevel   string
	capacity   int
	withGUI    bool
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clipstack",
		Short: "A clipboard history daemon",
		Long: `Clipstack watches the system clipboard and keeps a short, deduplicated,
most-recently-used history of copied text and images. Any entry can be
restored to the clipboard from the command line or the desktop picker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is <config dir>/clipstack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", 0, "number of history entries to keep")
	rootCmd.PersistentFlags().BoolVar(&withGUI, "gui", false, "show the desktop picker")

	rootCmd.AddCommand(GetCommands()...)
	return rootCmd
}

// loadConfig loads the config file, applies flag overrides and sets up the
// logger for the command
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if flags.Changed("capacity") {
		loaded.Capacity = capacity
	}
	if flags.Changed("gui") {
		loaded.GUI.Enabled = withGUI
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	SetConfig(loaded)

	// only the daemon writes to the log file
	logger, err := SetupLogger(loaded, cmd.Name() == "run")
	if err != nil {
		return err
	}
	SetZapLogger(logger)
	return nil
}

// Execute runs the command line and exits non-zero on error
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
