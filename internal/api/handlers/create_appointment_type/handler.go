package create_appointment_type

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTypeData    = "некорректные данные типа записи"
	msgMissingBusinessID  = "отсутствует ID бизнеса"
	msgBusinessNotFound   = "бизнес не найден"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointment-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointment-types - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Декодируем body
	var req models.CreateTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointment-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаём тип записи
	result, err := h.service.CreateType(r.Context(), businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrBusinessNotFound):
			h.logger.Warn("POST /appointment-types - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /appointment-types - Invalid type data: business_id=%d, name=%q, error=%v",
				businessID, req.Name, err)
			handlers.RespondBadRequest(w, msgInvalidTypeData)

		default:
			h.logger.Error("POST /appointment-types - Failed to create type: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointment-types - Type created successfully: type_id=%d, business_id=%d, name=%q",
		result.ID, businessID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
