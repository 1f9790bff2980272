package apptclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMB-AppointmentService/pkg/offlinequeue"
)

// Call is one write operation going through the coordinator.
type Call struct {
	Method      string
	Path        string
	Body        json.RawMessage
	Description string

	// Queueable opts the call into offline queueing. Only operations
	// whose blind replay cannot diverge from user intent opt in
	// (status patches, deletes).
	Queueable bool
}

// StatusSink receives the user-visible sync notices: queued, synced,
// dropped.
type StatusSink interface {
	Notice(message string)
}

type nopSink struct{}

func (nopSink) Notice(string) {}

// Snapshot is the canonical server state pulled after a successful
// flush. The local view is always replaced wholesale, never merged.
type Snapshot struct {
	Appointments []Appointment
	Types        []AppointmentType
	Settings     *Settings
	PulledAt     time.Time
}

// Coordinator glues Client, Queue and Monitor together: it decides per
// write whether a failure is queueable, flushes the queue when
// connectivity returns and reconciles local state with the server
// afterwards.
type Coordinator struct {
	client  *Client
	queue   *offlinequeue.Queue
	monitor *Monitor
	sink    StatusSink
	log     Logger

	mu       sync.Mutex
	snapshot *Snapshot
}

// NewCoordinator binds the parts together and subscribes to the
// monitor: the offline→online transition triggers FlushAndReconcile.
func NewCoordinator(client *Client, queue *offlinequeue.Queue, monitor *Monitor, sink StatusSink, log Logger) *Coordinator {
	if sink == nil {
		sink = nopSink{}
	}

	co := &Coordinator{
		client:  client,
		queue:   queue,
		monitor: monitor,
		sink:    sink,
		log:     log,
	}

	monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		if _, err := co.FlushAndReconcile(context.Background()); err != nil {
			co.log.Error("Flush on reconnect failed: %v", err)
		}
	})

	return co
}

// Do issues one write operation. An HTTP rejection is returned to the
// caller untouched - the server saw the request and said no, a retry
// would say no again. A connectivity failure on a queueable call is
// swallowed into the queue and reported via the sink instead of an
// error.
func (co *Coordinator) Do(ctx context.Context, call Call) error {
	if !co.monitor.Online() {
		return co.handleFailure(call, Failure{Kind: FailureOffline}, ErrOffline)
	}

	err := co.client.Do(ctx, call.Method, call.Path, call.Body)
	if err == nil {
		return nil
	}

	failure := Classify(err, true)
	if failure.Kind == FailureNetwork {
		// Запрос не дошёл - обновляем представление о связности,
		// пробник позже заметит восстановление и запустит flush
		co.monitor.SetOnline(false)
	}

	return co.handleFailure(call, failure, err)
}

func (co *Coordinator) handleFailure(call Call, failure Failure, err error) error {
	if !failure.Queueable() || !call.Queueable {
		return err
	}

	pending, qerr := co.queue.Enqueue(call.Path, call.Method, call.Body, call.Description)
	if qerr != nil {
		co.log.Warn("Mutation %q queued in memory only: %v", call.Description, qerr)
	}

	co.log.Info("Mutation %q queued (%s), %d pending", call.Description, failure.Kind, pending)
	co.sink.Notice(fmt.Sprintf("queued offline (%d pending)", pending))
	return nil
}

// FlushAndReconcile replays the queue and, if anything was applied,
// pulls the canonical appointments/types/settings from the server so
// the local view reflects the authoritative outcome, drops included.
func (co *Coordinator) FlushAndReconcile(ctx context.Context) (offlinequeue.FlushResult, error) {
	result, err := co.queue.Flush(ctx, func(ctx context.Context, entry offlinequeue.Entry) (int, error) {
		return co.client.Replay(ctx, entry.Method, entry.Path, entry.Body)
	})
	if errors.Is(err, offlinequeue.ErrFlushInProgress) {
		return offlinequeue.FlushResult{}, nil
	}
	if err != nil {
		return result, err
	}

	if result.Synced > 0 {
		co.sink.Notice(fmt.Sprintf("%d change(s) synced", result.Synced))
	}
	if result.Dropped > 0 {
		co.sink.Notice(fmt.Sprintf("%d change(s) could not be applied", result.Dropped))
	}
	if result.AuthExpired {
		co.sink.Notice("session expired, sync paused until re-authentication")
	}

	if result.Synced > 0 {
		if err := co.reconcile(ctx); err != nil {
			co.log.Error("Reconcile after flush failed: %v", err)
			return result, err
		}
	}

	return result, nil
}

// Pending reports how many mutations wait for replay.
func (co *Coordinator) Pending() int {
	return co.queue.Len()
}

// Snapshot returns the last canonical state pulled by a reconcile, or
// nil if none happened yet.
func (co *Coordinator) Snapshot() *Snapshot {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.snapshot
}

func (co *Coordinator) reconcile(ctx context.Context) error {
	appointments, err := co.client.ListAppointments(ctx, nil)
	if err != nil {
		return err
	}

	types, err := co.client.ListTypes(ctx, true)
	if err != nil {
		return err
	}

	settings, err := co.client.GetSettings(ctx)
	if err != nil {
		return err
	}

	snap := &Snapshot{
		Appointments: appointments.Appointments,
		Types:        types.AppointmentTypes,
		Settings:     settings,
		PulledAt:     time.Now(),
	}

	co.mu.Lock()
	co.snapshot = snap
	co.mu.Unlock()

	co.log.Info("Reconciled canonical state: %d appointment(s), %d type(s)",
		len(snap.Appointments), len(snap.Types))
	return nil
}
