package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/daemon"
	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/storage"
	"github.com/berrythewa/clipstack/pkg/format"
)

const requestTimeout = 5 * time.Second

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the clipstack daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := daemon.Stop(cfg.Paths.PIDFile)
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			GetZapLogger().Info("Stopped daemon", zap.Int("pid", pid))
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon stopped (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and storage status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := collectStatus(cmd.Context())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.FormatStatus(st, outputOptions(cmd, false)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

// collectStatus asks the daemon first; storage is read directly only when
// the daemon is not holding the database
func collectStatus(ctx context.Context) format.Status {
	logger := GetZapLogger()
	st := format.Status{Socket: cfg.IPC.SocketPath, DBPath: cfg.Storage.DBPath}

	if pid, err := daemon.RunningPID(cfg.Paths.PIDFile); err == nil {
		st.Running = true
		st.PID = pid
	}

	var engine daemon.Status
	if err := request(ctx, &ipc.Request{Command: ipc.CmdStatus}, &engine); err == nil {
		st.Running = true
		st.Source = engine.Source
		st.Entries = engine.Entries
		st.Capacity = engine.Capacity
		st.Visible = engine.Visible
	} else {
		logger.Debug("Daemon status unavailable", zap.Error(err))
	}

	if !st.Running {
		store, err := storage.NewBoltStorage(storage.StorageConfig{DBPath: cfg.Storage.DBPath, Logger: logger, ReadOnly: true})
		if err != nil {
			logger.Debug("Database unavailable", zap.Error(err))
			return st
		}
		defer store.Close()
		if stats, err := store.Stats(); err == nil {
			st.DBSize = stats.SizeBytes
			st.DBEntries = stats.Entries
			st.SavedAt = stats.SavedAt
		}
	}
	return st
}

// request sends req to the daemon and decodes the response data into out
func request(ctx context.Context, req *ipc.Request, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := ipc.SendRequest(ctx, cfg.IPC.SocketPath, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(resp.Data, out)
}

// decodeData converts the generic JSON response payload into out
func decodeData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("invalid response data: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid response data: %w", err)
	}
	return nil
}

// outputOptions picks terminal formatting for the command's output
func outputOptions(cmd *cobra.Command, compact bool) format.Options {
	opts := format.PlainOptions(compact)
	if file, ok := cmd.OutOrStdout().(*os.File); ok && format.IsTerminal(file) {
		opts = format.DefaultOptions()
		if compact {
			opts = format.CompactOptions()
		}
	}
	return opts
}
