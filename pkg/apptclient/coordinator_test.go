package apptclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/pkg/offlinequeue"
)

type recordingSink struct {
	mu      sync.Mutex
	notices []string
}

func (s *recordingSink) Notice(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notices))
	copy(out, s.notices)
	return out
}

// syncServer имитирует сервер записей: принимает мутации и отдаёт
// канонический срез для reconcile.
type syncServer struct {
	mu        sync.Mutex
	mutations []string // "METHOD path"
	failWith  int      // не 0 - мутации отвергаются этим статусом
}

func (s *syncServer) handler() http.Handler {
	mux := http.NewServeMux()

	// ServeMux в go1.21 ещё не понимает методные шаблоны вида "GET /path",
	// поэтому метод проверяется вручную: GET/HEAD обслуживает канонические
	// данные, остальные методы уходят в catch-all, как и при шаблонах go1.22.
	catchAll := func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.mutations = append(s.mutations, r.Method+" "+r.URL.Path)
		failWith := s.failWith
		s.mu.Unlock()

		if failWith != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failWith)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": failWith, "message": "rejected"})
			return
		}
		w.WriteHeader(http.StatusOK)
	}
	onGet := func(serve http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				catchAll(w, r)
				return
			}
			serve(w, r)
		}
	}

	mux.HandleFunc("/health", onGet(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("/api/v1/appointments", onGet(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(AppointmentList{Appointments: []Appointment{
			{ID: 1, BusinessID: 42, Title: "Appointment", ClientName: "Ann", Date: "2026-03-14", Time: "10:00", DurationMinutes: 30, Status: "confirmed", Source: "owner"},
		}})
	}))
	mux.HandleFunc("/api/v1/appointment-types", onGet(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TypeList{AppointmentTypes: []AppointmentType{
			{ID: 3, BusinessID: 42, Name: "Consultation", DurationMinutes: 30, Active: true},
		}})
	}))
	mux.HandleFunc("/api/v1/settings", onGet(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Settings{
			Business: Business{ID: 42, Slug: "acme"},
			Settings: SettingsData{OpenTime: "09:00", CloseTime: "17:00", WorkingDays: 31},
		})
	}))
	mux.HandleFunc("/", catchAll)

	return mux
}

func (s *syncServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.mutations))
	copy(out, s.mutations)
	return out
}

func newTestCoordinator(t *testing.T, srvURL string) (*Coordinator, *Monitor, *recordingSink) {
	t.Helper()

	log := testLogger{t}
	client := NewClient(srvURL, 42, 5*time.Second, log)
	monitor := NewMonitor(log)

	queue, err := offlinequeue.NewQueue(offlinequeue.NewMemoryStore(), monitor.Online, log)
	require.NoError(t, err)

	sink := &recordingSink{}
	return NewCoordinator(client, queue, monitor, sink, log), monitor, sink
}

func cancelCall(id int64) Call {
	body, _ := json.Marshal(SetStatusRequest{Status: "cancelled"})
	return Call{
		Method:      http.MethodPatch,
		Path:        AppointmentStatusPath(id),
		Body:        body,
		Description: "cancel appointment",
		Queueable:   true,
	}
}

func TestCoordinator_Do_Success(t *testing.T) {
	server := &syncServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, _, sink := newTestCoordinator(t, srv.URL)

	err := co.Do(context.Background(), cancelCall(7))

	require.NoError(t, err)
	assert.Equal(t, 0, co.Pending())
	assert.Empty(t, sink.all())
	assert.Equal(t, []string{"PATCH /api/v1/appointments/7/status"}, server.received())
}

func TestCoordinator_Do_OfflineQueuesQueueableCall(t *testing.T) {
	server := &syncServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, monitor, sink := newTestCoordinator(t, srv.URL)
	monitor.SetOnline(false)

	err := co.Do(context.Background(), cancelCall(7))

	// Отложенная мутация - не ошибка для вызывающего
	require.NoError(t, err)
	assert.Equal(t, 1, co.Pending())
	assert.Equal(t, []string{"queued offline (1 pending)"}, sink.all())
	assert.Empty(t, server.received(), "offline call must not reach the server")
}

func TestCoordinator_Do_OfflineRejectsNonQueueableCall(t *testing.T) {
	server := &syncServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, monitor, _ := newTestCoordinator(t, srv.URL)
	monitor.SetOnline(false)

	call := cancelCall(7)
	call.Queueable = false

	err := co.Do(context.Background(), call)

	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, 0, co.Pending())
}

func TestCoordinator_Do_HTTPRejectionIsNeverQueued(t *testing.T) {
	server := &syncServer{failWith: http.StatusConflict}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, monitor, _ := newTestCoordinator(t, srv.URL)

	err := co.Do(context.Background(), cancelCall(7))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "server rejection must surface to the caller")
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, 0, co.Pending())
	assert.True(t, monitor.Online(), "http rejection is not a connectivity loss")
}

func TestCoordinator_Do_NetworkFailureQueuesAndFlipsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // соединение будет отклонено

	co, monitor, sink := newTestCoordinator(t, srv.URL)

	err := co.Do(context.Background(), cancelCall(7))

	require.NoError(t, err)
	assert.Equal(t, 1, co.Pending())
	assert.False(t, monitor.Online(), "network failure must flip the monitor offline")
	assert.Equal(t, []string{"queued offline (1 pending)"}, sink.all())
}

func TestCoordinator_FlushAndReconcile(t *testing.T) {
	server := &syncServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, monitor, sink := newTestCoordinator(t, srv.URL)

	// Копим очередь в оффлайне
	monitor.SetOnline(false)
	require.NoError(t, co.Do(context.Background(), cancelCall(1)))
	require.NoError(t, co.Do(context.Background(), cancelCall(2)))
	require.Equal(t, 2, co.Pending())

	// SetOnline сам запускает flush через подписку
	monitor.SetOnline(true)

	assert.Equal(t, 0, co.Pending())
	assert.Equal(t, []string{
		"PATCH /api/v1/appointments/1/status",
		"PATCH /api/v1/appointments/2/status",
	}, server.received())

	snap := co.Snapshot()
	require.NotNil(t, snap, "reconcile must pull canonical state after a sync")
	assert.Len(t, snap.Appointments, 1)
	assert.Len(t, snap.Types, 1)
	require.NotNil(t, snap.Settings)
	assert.Equal(t, "acme", snap.Settings.Business.Slug)

	notices := sink.all()
	require.Len(t, notices, 3)
	assert.Contains(t, notices, "2 change(s) synced")
}

func TestCoordinator_FlushAndReconcile_DroppedEntriesReported(t *testing.T) {
	server := &syncServer{failWith: http.StatusNotFound}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, monitor, sink := newTestCoordinator(t, srv.URL)

	monitor.SetOnline(false)
	require.NoError(t, co.Do(context.Background(), cancelCall(1)))
	monitor.SetOnline(true)

	result, err := co.FlushAndReconcile(context.Background())
	require.NoError(t, err)

	// Очередь уже опустела при flush по подписке
	assert.Equal(t, 0, co.Pending())
	assert.Equal(t, 0, result.Synced)
	assert.Contains(t, sink.all(), "1 change(s) could not be applied")
}

func TestCoordinator_FlushAndReconcile_EmptyQueueSkipsReconcile(t *testing.T) {
	server := &syncServer{}
	srv := httptest.NewServer(server.handler())
	defer srv.Close()

	co, _, sink := newTestCoordinator(t, srv.URL)

	result, err := co.FlushAndReconcile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, offlinequeue.FlushResult{}, result)
	assert.Nil(t, co.Snapshot())
	assert.Empty(t, sink.all())
}
