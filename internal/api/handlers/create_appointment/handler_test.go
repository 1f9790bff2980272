package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Info(format string, v ...interface{})  { l.t.Logf("INFO  "+format, v...) }
func (l testLogger) Warn(format string, v ...interface{})  { l.t.Logf("WARN  "+format, v...) }
func (l testLogger) Error(format string, v ...interface{}) { l.t.Logf("ERROR "+format, v...) }

type fakeUseCase struct {
	gotReq   *createAppointment.Request
	response *createAppointment.Response
	failWith error
}

func (u *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	u.gotReq = req
	if u.failWith != nil {
		return nil, u.failWith
	}
	return u.response, nil
}

func newHandler(t *testing.T) (*Handler, *fakeUseCase) {
	t.Helper()

	uc := &fakeUseCase{
		response: &createAppointment.Response{
			ID:              7,
			BusinessID:      42,
			Title:           "Consultation",
			ClientName:      "Ann Smith",
			Date:            time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 45,
			Location:        "Office",
			Status:          "confirmed",
			Source:          "owner",
			Notifications: createAppointment.NotificationSummary{
				Provider:       "smtp",
				ClientNotified: true,
				OwnerNotified:  true,
			},
			CreatedAt: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		},
	}
	return NewHandler(uc, testLogger{t: t}), uc
}

// perform выполняет запрос к ручке; businessID < 0 имитирует запрос без авторизации
func perform(h *Handler, businessID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if businessID > 0 {
		req = req.WithContext(middleware.ContextWithBusinessID(req.Context(), businessID))
	}

	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandle_CreatesAppointment(t *testing.T) {
	h, uc := newHandler(t)

	rec := perform(h, 42, `{"clientName": "Ann Smith", "date": "2026-03-16", "time": "10:00", "durationMinutes": 45}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(42), uc.gotReq.BusinessID, "business id comes from the auth context")
	assert.Equal(t, domain.SourceOwner, uc.gotReq.Source)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), uc.gotReq.Date)
	assert.Equal(t, "10:00", uc.gotReq.StartTime.String())

	var resp AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2026-03-16", resp.Date)
	assert.Equal(t, "10:00", resp.Time)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "owner", resp.Source)
	assert.Equal(t, "smtp", resp.Notifications.Provider)
	assert.True(t, resp.Notifications.ClientNotified)
}

func TestHandle_MissingBusinessID(t *testing.T) {
	h, uc := newHandler(t)

	rec := perform(h, -1, `{"clientName": "Ann Smith", "date": "2026-03-16", "time": "10:00"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uc.gotReq, "use case must not run without auth")
}

func TestHandle_MalformedJSON(t *testing.T) {
	h, uc := newHandler(t)

	rec := perform(h, 42, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.gotReq)
}

func TestHandle_UnparsableDateOrTime(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrong date format", body: `{"clientName": "Ann", "date": "16.03.2026", "time": "10:00"}`},
		{name: "wrong time format", body: `{"clientName": "Ann", "date": "2026-03-16", "time": "9am"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, uc := newHandler(t)

			rec := perform(h, 42, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.gotReq)
		})
	}
}

func TestHandle_ConflictMapsTo400WithWindow(t *testing.T) {
	h, uc := newHandler(t)
	uc.failWith = &createAppointment.ConflictError{BlockStart: 540, BlockEnd: 585}

	rec := perform(h, 42, `{"clientName": "Ann", "date": "2026-03-16", "time": "09:00"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Contains(t, body.Message, msgSlotConflict)
	assert.Contains(t, body.Message, "9:00 AM", "conflict message names the busy window")
}

func TestHandle_BusinessNotFoundMapsTo404(t *testing.T) {
	h, uc := newHandler(t)
	uc.failWith = createAppointment.ErrBusinessNotFound

	rec := perform(h, 42, `{"clientName": "Ann", "date": "2026-03-16", "time": "10:00"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}

func TestHandle_InvalidInputMapsTo400(t *testing.T) {
	h, uc := newHandler(t)
	uc.failWith = createAppointment.ErrInvalidInput

	rec := perform(h, 42, `{"clientName": "", "date": "2026-03-16", "time": "10:00"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ConcurrentUpdateMapsTo409(t *testing.T) {
	h, uc := newHandler(t)
	uc.failWith = createAppointment.ErrConcurrentUpdate

	rec := perform(h, 42, `{"clientName": "Ann", "date": "2026-03-16", "time": "10:00"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_UnknownErrorMapsTo500(t *testing.T) {
	h, uc := newHandler(t)
	uc.failWith = errors.New("boom")

	rec := perform(h, 42, `{"clientName": "Ann", "date": "2026-03-16", "time": "10:00"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, decodeError(t, rec).Code)
}
