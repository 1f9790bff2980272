package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the sync client CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apptsync",
		Short: "Offline-capable sync client for the appointment service",
		Long: `apptsync keeps a durable local queue of write operations against the
appointment service. Writes issued while the server is unreachable are
queued and replayed in order once connectivity returns.

Configuration comes from environment variables or a .env file:
  SERVER_URL      base URL of the appointment service (default http://localhost:8080)
  BUSINESS_ID     tenant to operate on (required)
  QUEUE_PATH      path of the local queue database (default apptsync.db)
  PROBE_INTERVAL  health probe interval in seconds (default 15)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newFlushCommand())
	cmd.AddCommand(newQueueCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newCancelCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
