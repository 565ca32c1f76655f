package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/types"
	"github.com/berrythewa/clipstack/pkg/format"
)

func newWatchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the history each time the daemon changes it",
		Long: `Subscribe to the daemon and print the history whenever it changes.
With --json every notification is printed as one JSON line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			opts := outputOptions(cmd, true)

			emit := func(n ipc.Notification) error {
				if asJSON {
					return enc.Encode(n)
				}
				switch n.Event {
				case ipc.EventSnapshot:
					fmt.Fprintln(out, format.FormatList(n.Entries, opts))
					fmt.Fprintln(out)
				default:
					fmt.Fprintf(out, "-- %s\n", n.Event)
				}
				return nil
			}

			first := func(resp *ipc.Response) error {
				var entries []types.EntrySummary
				if err := decodeData(resp.Data, &entries); err != nil {
					return err
				}
				return emit(ipc.Notification{Event: ipc.EventSnapshot, Entries: entries})
			}

			return ipc.Watch(ctx, cfg.IPC.SocketPath, first, emit)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print notifications as JSON lines")
	return cmd
}
