package create_public_appointment

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные запроса"
	msgBusinessNotFound   = "страница не найдена"
	msgSlotConflict       = "временной слот пересекается с существующей записью"
	msgConcurrentUpdate   = "слот заняли параллельно, выберите другое время"
)

type Handler struct {
	resolver SlugResolver
	useCase  CreateAppointmentUseCase
	logger   Logger
}

func NewHandler(resolver SlugResolver, useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		useCase:  useCase,
		logger:   logger,
	}
}

// Handle POST /api/v1/public/{slug}/appointments
//
// Публичная запись: клиент с витрины бизнеса занимает слот без
// авторизации, бизнес определяется по slug из URL.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем slug из URL
	vars := mux.Vars(r)
	slug := vars["slug"]

	// Определяем бизнес по slug
	businessID, err := h.resolver.ResolveSlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrBusinessNotFound):
			h.logger.Warn("POST /public/{slug}/appointments - Business not found: slug=%q", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("POST /public/{slug}/appointments - Failed to resolve slug: slug=%q, error=%v",
				slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	var req CreatePublicAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/{slug}/appointments - Invalid request body: slug=%q, error=%v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /public/{slug}/appointments - Failed to parse request: slug=%q, error=%v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondUseCaseError(w, slug, err)
		return
	}

	h.logger.Info("POST /public/{slug}/appointments - Appointment created successfully: appointment_id=%d, slug=%q",
		result.ID, slug)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, slug string, err error) {
	var conflictErr *createAppointment.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		h.logger.Warn("POST /public/{slug}/appointments - Slot conflict: slug=%q, window=%s",
			slug, conflictErr.Window())
		// В сообщении называем занятый интервал, чтобы клиент видел, с чем пересёкся
		handlers.RespondBadRequest(w, fmt.Sprintf("%s (%s)", msgSlotConflict, conflictErr.Window()))

	case errors.Is(err, createAppointment.ErrBusinessNotFound):
		h.logger.Warn("POST /public/{slug}/appointments - Business not found: slug=%q", slug)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /public/{slug}/appointments - Invalid input: slug=%q, error=%v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createAppointment.ErrConcurrentUpdate):
		h.logger.Warn("POST /public/{slug}/appointments - Concurrent update: slug=%q", slug)
		handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

	default:
		h.logger.Error("POST /public/{slug}/appointments - Failed to create appointment: slug=%q, error=%v",
			slug, err)
		handlers.RespondInternalError(w)
	}
}
