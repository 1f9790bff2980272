package update_appointment

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	updateAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/update_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput         = "некорректные данные запроса"
	msgMissingBusinessID    = "отсутствует ID бизнеса"
	msgNotFound             = "запись не найдена"
	msgSlotConflict         = "временной слот пересекается с существующей записью"
	msgConcurrentUpdate     = "записи бизнеса изменяются параллельно, повторите запрос"
)

type Handler struct {
	useCase UpdateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id} - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID, appointmentID)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, businessID, appointmentID, err)
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("PUT /appointments/{id} - Appointment updated successfully: appointment_id=%d, business_id=%d",
		appointmentID, businessID)
	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, businessID, appointmentID int64, err error) {
	var conflictErr *updateAppointment.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		h.logger.Warn("PUT /appointments/{id} - Slot conflict: appointment_id=%d, business_id=%d, window=%s",
			appointmentID, businessID, conflictErr.Window())
		// В сообщении называем занятый интервал, чтобы клиент видел, с чем пересёкся
		handlers.RespondBadRequest(w, fmt.Sprintf("%s (%s)", msgSlotConflict, conflictErr.Window()))

	case errors.Is(err, updateAppointment.ErrAppointmentNotFound):
		h.logger.Warn("PUT /appointments/{id} - Appointment not found: appointment_id=%d, business_id=%d",
			appointmentID, businessID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, updateAppointment.ErrInvalidInput):
		h.logger.Warn("PUT /appointments/{id} - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, updateAppointment.ErrConcurrentUpdate):
		h.logger.Warn("PUT /appointments/{id} - Concurrent update: appointment_id=%d, business_id=%d",
			appointmentID, businessID)
		handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

	default:
		h.logger.Error("PUT /appointments/{id} - Failed to update appointment: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
