package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCommand creates the status command: one-line connectivity
// and queue overview.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server reachability and queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.client.Health(context.Background()); err != nil {
				fmt.Printf("Server:  %s is unreachable (%v)\n", app.cfg.ServerURL, err)
			} else {
				fmt.Printf("Server:  %s is online\n", app.cfg.ServerURL)
			}

			fmt.Printf("Tenant:  business %d\n", app.cfg.BusinessID)
			fmt.Printf("Queue:   %d pending mutation(s) in %s\n", app.queue.Len(), app.cfg.QueuePath)
			return nil
		},
	}
}
