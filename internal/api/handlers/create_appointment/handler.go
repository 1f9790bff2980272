package create_appointment

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные запроса"
	msgMissingBusinessID  = "отсутствует ID бизнеса"
	msgBusinessNotFound   = "бизнес не найден"
	msgSlotConflict       = "временной слот пересекается с существующей записью"
	msgConcurrentUpdate   = "записи бизнеса изменяются параллельно, повторите запрос"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID, domain.SourceOwner)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, businessID, err)
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, business_id=%d",
		result.ID, businessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, businessID int64, err error) {
	var conflictErr *createAppointment.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		h.logger.Warn("POST /appointments - Slot conflict: business_id=%d, window=%s",
			businessID, conflictErr.Window())
		// В сообщении называем занятый интервал, чтобы клиент видел, с чем пересёкся
		handlers.RespondBadRequest(w, fmt.Sprintf("%s (%s)", msgSlotConflict, conflictErr.Window()))

	case errors.Is(err, createAppointment.ErrBusinessNotFound):
		h.logger.Warn("POST /appointments - Business not found: business_id=%d", businessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /appointments - Invalid input: business_id=%d, error=%v", businessID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createAppointment.ErrConcurrentUpdate):
		h.logger.Warn("POST /appointments - Concurrent update: business_id=%d", businessID)
		handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

	default:
		h.logger.Error("POST /appointments - Failed to create appointment: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
	}
}
