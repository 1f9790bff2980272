package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newQueueCommand creates the queue command group: inspect and manage
// the pending mutation queue.
func newQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the pending mutation queue",
	}

	cmd.AddCommand(newQueueListCommand())
	cmd.AddCommand(newQueueClearCommand())

	return cmd
}

func newQueueListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending mutations in replay order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			entries := app.queue.Entries()
			if len(entries) == 0 {
				fmt.Println("Queue is empty")
				return nil
			}

			fmt.Printf("%d pending mutation(s):\n", len(entries))
			for i, entry := range entries {
				fmt.Printf("%3d. [%s] %-6s %-40s %s\n",
					i+1, entry.CreatedAt.Format("2006-01-02 15:04:05"),
					entry.Method, entry.Path, entry.Description)
			}
			return nil
		},
	}
}

func newQueueClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all pending mutations without replaying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			pending := app.queue.Len()
			if err := app.queue.Clear(); err != nil {
				return err
			}

			fmt.Printf("Cleared %d pending mutation(s)\n", pending)
			return nil
		},
	}
}
