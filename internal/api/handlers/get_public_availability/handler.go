package get_public_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMB-AppointmentService/internal/usecase/get_availability"
)

const (
	msgMissingTypeID    = "ID типа записи обязателен"
	msgInvalidTypeID    = "некорректный ID типа записи"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound = "страница не найдена"
	msgTypeNotFound     = "тип записи не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/public/{slug}/availability
// Query params: typeId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем slug из URL
	vars := mux.Vars(r)
	slug := vars["slug"]

	// Извлекаем typeId из query
	typeIDStr := r.URL.Query().Get("typeId")
	if typeIDStr == "" {
		h.logger.Warn("GET /public/{slug}/availability - Missing type ID: slug=%q", slug)
		handlers.RespondBadRequest(w, msgMissingTypeID)
		return
	}

	typeID, err := strconv.ParseInt(typeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /public/{slug}/availability - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	// Извлекаем date из query
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /public/{slug}/availability - Missing date: slug=%q", slug)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	req, err := ToUseCaseRequest(slug, typeID, dateStr)
	if err != nil {
		h.logger.Warn("GET /public/{slug}/availability - Invalid date: date=%q, error=%v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Получаем доступные слоты
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrBusinessNotFound):
			h.logger.Warn("GET /public/{slug}/availability - Business not found: slug=%q", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailability.ErrTypeNotFound):
			h.logger.Warn("GET /public/{slug}/availability - Type not found: slug=%q, type_id=%d",
				slug, typeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /public/{slug}/availability - Invalid input: slug=%q, error=%v",
				slug, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /public/{slug}/availability - Failed to get availability: slug=%q, error=%v",
				slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/{slug}/availability - Slots retrieved successfully: slug=%q, type_id=%d, date=%s, count=%d",
		slug, typeID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
