package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/storage"
	"github.com/berrythewa/clipstack/internal/types"
	"github.com/berrythewa/clipstack/pkg/format"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage clipboard history",
		Long: `Manage clipboard history:
  • List history entries, most recent first
  • Restore an entry to the clipboard
  • Clear the history`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistorySelectCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

// newHistoryListCmd creates the list subcommand
func newHistoryListCmd() *cobra.Command {
	var (
		asJSON   bool
		compact  bool
		noColors bool
		maxLines int
		maxWidth int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard history",
		Long: `List clipboard history entries, most recent first. The index in front
of each entry can be passed to 'clipstack history select'.

When the daemon is not running the database is read directly.

Examples:
  clipstack history list               # Show the history
  clipstack history list --compact     # One line per entry
  clipstack history list --json        # Machine readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := listHistory(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			opts := outputOptions(cmd, compact)
			if noColors {
				opts.UseColors = false
			}
			if cmd.Flags().Changed("max-lines") {
				opts.MaxLines = maxLines
			}
			if cmd.Flags().Changed("max-width") {
				opts.MaxWidth = maxWidth
			}

			fmt.Fprintln(cmd.OutOrStdout(), format.FormatList(entries, opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output history as JSON")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")
	cmd.Flags().IntVar(&maxLines, "max-lines", 10, "maximum lines to show per entry (0 = no limit)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 80, "maximum width per line (0 = no limit)")

	return cmd
}

// listHistory asks the daemon for the history and falls back to a
// read-only view of the database when no daemon answers
func listHistory(ctx context.Context) ([]types.EntrySummary, error) {
	var entries []types.EntrySummary
	err := request(ctx, &ipc.Request{Command: ipc.CmdHistory}, &entries)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, ipc.ErrNoDaemon) {
		return nil, err
	}

	GetZapLogger().Debug("Daemon not reachable, reading database", zap.Error(err))
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:   cfg.Storage.DBPath,
		Logger:   GetZapLogger(),
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("daemon not running and history unavailable: %w", err)
	}
	defer store.Close()

	stored, err := store.Load()
	if err != nil {
		return nil, err
	}
	return types.Summaries(stored), nil
}

// newHistorySelectCmd creates the select subcommand
func newHistorySelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <index|id>",
		Short: "Restore a history entry to the clipboard",
		Long: `Restore a history entry to the clipboard and move it to the top of the
history. The entry is given by its index from 'clipstack history list'
(1 is the most recent) or by its ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := selectRequest(args[0])
			if err := request(cmd.Context(), req, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Entry restored to clipboard")
			return nil
		},
	}
}

// selectRequest maps a 1-based index or an entry ID to a select request
func selectRequest(arg string) *ipc.Request {
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return &ipc.Request{Command: ipc.CmdSelect, Args: map[string]interface{}{"index": n - 1}}
	}
	return &ipc.Request{Command: ipc.CmdSelect, Args: map[string]interface{}{"id": arg}}
}

// newHistoryClearCmd creates the clear subcommand
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		Long: `Remove every history entry. When the daemon is not running the stored
history is cleared directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := request(cmd.Context(), &ipc.Request{Command: ipc.CmdClear}, nil)
			if errors.Is(err, ipc.ErrNoDaemon) {
				err = clearStored()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ History cleared")
			return nil
		},
	}
}

func clearStored() error {
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath: cfg.Storage.DBPath,
		Logger: GetZapLogger(),
	})
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(nil)
}
