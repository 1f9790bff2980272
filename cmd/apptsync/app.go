package main

import (
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/pkg/apptclient"
	"github.com/m04kA/SMB-AppointmentService/pkg/logger"
	"github.com/m04kA/SMB-AppointmentService/pkg/offlinequeue"
)

// app wires the sync client parts together for one command invocation.
type app struct {
	cfg     *Config
	log     *logger.Logger
	client  *apptclient.Client
	store   *offlinequeue.SQLiteStore
	queue   *offlinequeue.Queue
	monitor *apptclient.Monitor
	coord   *apptclient.Coordinator
}

// printSink prints sync notices to stdout, the CLI's stand-in for UI
// toast messages.
type printSink struct{}

func (printSink) Notice(message string) {
	fmt.Printf(">> %s\n", message)
}

func newApp() (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New("", cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client := apptclient.NewClient(cfg.ServerURL, cfg.BusinessID, cfg.RequestTimeout, log)
	monitor := apptclient.NewMonitor(log)

	store, err := offlinequeue.NewSQLiteStore(cfg.QueuePath)
	if err != nil {
		return nil, err
	}

	queue, err := offlinequeue.NewQueue(store, monitor.Online, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	coord := apptclient.NewCoordinator(client, queue, monitor, printSink{}, log)

	return &app{
		cfg:     cfg,
		log:     log,
		client:  client,
		store:   store,
		queue:   queue,
		monitor: monitor,
		coord:   coord,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("Failed to close queue store: %v", err)
	}
	_ = a.log.Close()
}
