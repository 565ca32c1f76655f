package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/berrythewa/clipstack/internal/clipboard"
	"github.com/berrythewa/clipstack/internal/config"
	"github.com/berrythewa/clipstack/internal/daemon"
	"github.com/berrythewa/clipstack/internal/gui"
	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/storage"
)

func newRunCmd() *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard history daemon",
		Long: `Run the clipboard history daemon. It polls the clipboard, keeps the
history in the database, and answers the other commands over a local socket.

With --detach the daemon is started in the background and its PID is
written to the run directory. With --gui the desktop picker is shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetZapLogger()

			if detach && !daemon.IsDaemonChild() {
				executable, err := os.Executable()
				if err != nil {
					return fmt.Errorf("failed to find executable: %w", err)
				}
				pid, err := daemon.Daemonize(executable, os.Args[1:], cfg.Paths.PIDFile, LogPath(cfg), logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Clipstack daemon started (PID %d)\n", pid)
				fmt.Fprintf(cmd.OutOrStdout(), "Logs: %s\n", LogPath(cfg))
				return nil
			}

			if pid, err := daemon.RunningPID(cfg.Paths.PIDFile); err == nil && pid != os.Getpid() {
				return fmt.Errorf("daemon already running with PID %d", pid)
			}
			if err := daemon.WritePIDFile(cfg.Paths.PIDFile, os.Getpid()); err != nil {
				return err
			}
			defer daemon.RemovePIDFile(cfg.Paths.PIDFile)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDaemon(ctx, stop, cfg, logger)
		},
	}

	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "run in the background")
	return cmd
}

// runDaemon wires the engine to storage, the clipboard, the socket and the
// optional picker, and runs until ctx ends. The picker, when enabled, owns
// the calling goroutine.
func runDaemon(ctx context.Context, stop context.CancelFunc, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting clipstack daemon",
		zap.Int("capacity", cfg.Capacity),
		zap.Duration("poll_interval", cfg.PollInterval()),
		zap.String("db_path", cfg.Storage.DBPath),
		zap.String("socket", cfg.IPC.SocketPath),
		zap.Bool("gui", cfg.GUI.Enabled))

	var persister daemon.Persister
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath: cfg.Storage.DBPath,
		Logger: logger,
	})
	if err != nil {
		// history still works, it just does not survive a restart
		logger.Warn("Persistence unavailable, keeping history in memory only", zap.Error(err))
	} else {
		defer store.Close()
		persister = store
	}

	hub := ipc.NewHub(logger)
	presenters := daemon.Presenters{hub}

	var picker *gui.Picker
	if cfg.GUI.Enabled {
		picker = gui.NewPicker(cfg.ThumbnailSize, logger)
		presenters = append(presenters, picker)
	}

	engine := daemon.NewEngine(clipboard.NewSource(logger), persister, presenters, daemon.Options{
		Capacity:      cfg.Capacity,
		PollInterval:  cfg.PollInterval(),
		ThumbnailSize: cfg.ThumbnailSize,
		MaxItemBytes:  cfg.MaxItemBytes,
		Logger:        logger,
	})
	server := ipc.NewServer(cfg.IPC.SocketPath, engine.HandleRequest, hub, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})

	if picker != nil {
		picker.Bind(gctx, engine)
		go func() {
			<-gctx.Done()
			picker.Quit()
		}()
		picker.Run()
		// the picker's event loop ended, take the daemon down with it
		stop()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("Clipstack daemon stopped")
	return err
}
