package apptclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(srv.URL, 42, 5*time.Second, testLogger{t})
}

func TestClient_Do_SendsHeaders(t *testing.T) {
	var gotBusinessID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBusinessID = r.Header.Get(HeaderBusinessID)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.Do(context.Background(), http.MethodDelete, AppointmentPath(7), nil)

	require.NoError(t, err)
	assert.Equal(t, "42", gotBusinessID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_Do_ParsesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    http.StatusConflict,
			"message": "временной слот уже занят",
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.Do(context.Background(), http.MethodPost, AppointmentsPath, json.RawMessage(`{}`))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "non-2xx must surface as *APIError")
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "временной слот уже занят", apiErr.Message)
}

func TestClient_Do_FallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text, not our envelope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.Do(context.Background(), http.MethodGet, "/api/v1/settings", nil)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClient_Do_TransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // соединение будет отклонено

	client := newTestClient(t, srv)
	err := client.Do(context.Background(), http.MethodDelete, AppointmentPath(1), nil)

	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok)
	assert.Equal(t, FailureNetwork, Classify(err, true).Kind)
}

func TestClient_Replay_ReturnsRawStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	status, err := client.Replay(context.Background(), http.MethodDelete, AppointmentPath(9), nil)

	// Отказ сервера при replay - это статус, а не ошибка
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestClient_ListAppointments_BuildsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(AppointmentList{Appointments: []Appointment{}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListAppointments(context.Background(), &ListAppointmentsOptions{
		From:             "2026-03-01",
		To:               "2026-03-31",
		Status:           "confirmed",
		IncludeCancelled: true,
	})

	require.NoError(t, err)
	assert.Contains(t, gotQuery, "from=2026-03-01")
	assert.Contains(t, gotQuery, "to=2026-03-31")
	assert.Contains(t, gotQuery, "status=confirmed")
	assert.Contains(t, gotQuery, "includeCancelled=true")
}

func TestClient_GetSettings_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/settings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Settings{
			Business: Business{ID: 42, Name: "Acme Dental", Slug: "acme-dental"},
			Settings: SettingsData{OpenTime: "09:00", CloseTime: "17:00", WorkingDays: 31},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	settings, err := client.GetSettings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "acme-dental", settings.Business.Slug)
	assert.Equal(t, 31, settings.Settings.WorkingDays)
}

func TestClient_Health_UsesUnprefixedPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, "/health", gotPath)
}

func TestAppointmentPaths(t *testing.T) {
	assert.Equal(t, "/api/v1/appointments", AppointmentsPath)
	assert.Equal(t, "/api/v1/appointments/7", AppointmentPath(7))
	assert.Equal(t, "/api/v1/appointments/7/status", AppointmentStatusPath(7))
}
