package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMB-AppointmentService/pkg/apptclient"
)

// newCancelCommand creates the cancel command. Cancellation is a status
// patch, one of the mutations safe to queue while offline.
func newCancelCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <appointment-id>",
		Short: "Cancel an appointment (queued when offline)",
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

			req := apptclient.SetStatusRequest{Status: "cancelled"}
			if reason != "" {
				req.CancellationReason = &reason
			}
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}

			// Если сервер недоступен, отмена ляжет в очередь и
			// доедет при следующем flush
			err = app.coord.Do(context.Background(), apptclient.Call{
				Method:      "PATCH",
				Path:        apptclient.AppointmentStatusPath(id),
				Body:        body,
				Description: fmt.Sprintf("cancel appointment %d", id),
				Queueable:   true,
			})
			if err != nil {
				return err
			}

			if app.queue.Len() == 0 {
				fmt.Printf("Appointment %d cancelled\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason passed to the server")

	return cmd
}
