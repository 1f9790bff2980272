package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newWatchCommand creates the watch command: a long-running probe loop
// that flushes the queue whenever the server comes back.
func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch connectivity and flush the queue on reconnect",
		Long: `Polls the server's health endpoint. While the server is unreachable the
client considers itself offline; on the offline-to-online transition the
pending queue is flushed and local state is reconciled with the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Watching %s every %s, %d mutation(s) pending (Ctrl+C to stop)\n",
				app.cfg.ServerURL, app.cfg.ProbeInterval, app.queue.Len())

			// Начальное состояние: если сервер уже доступен, сразу
			// пробуем дослать накопленное
			if err := app.client.Health(ctx); err != nil {
				app.monitor.SetOnline(false)
			} else if _, err := app.coord.FlushAndReconcile(ctx); err != nil {
				app.log.Error("Initial flush failed: %v", err)
			}

			app.monitor.RunProbe(ctx, app.client, app.cfg.ProbeInterval)

			fmt.Println("Stopped")
			return nil
		},
	}
}
