package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMB-AppointmentService/pkg/apptclient"
)

// newDeleteCommand creates the delete command. Deletion is idempotent
// on the server side, so it is safe to queue while offline.
func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <appointment-id>",
		Short: "Delete an appointment (queued when offline)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			err = app.coord.Do(context.Background(), apptclient.Call{
				Method:      "DELETE",
				Path:        apptclient.AppointmentPath(id),
				Description: fmt.Sprintf("delete appointment %d", id),
				Queueable:   true,
			})
			if err != nil {
				return err
			}

			if app.queue.Len() == 0 {
				fmt.Printf("Appointment %d deleted\n", id)
			}
			return nil
		},
	}
}
