package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newFlushCommand creates the flush command: a one-shot replay of the
// pending queue.
func newFlushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Replay pending mutations once",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			pending := app.queue.Len()
			if pending == 0 {
				fmt.Println("Queue is empty, nothing to flush")
				return nil
			}

			result, err := app.coord.FlushAndReconcile(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Flush finished: %d synced, %d dropped, %d still pending\n",
				result.Synced, result.Dropped, app.queue.Len())
			if result.AuthExpired {
				fmt.Println("Flush stopped: session expired, re-authenticate and retry")
			}
			return nil
		},
	}
}
