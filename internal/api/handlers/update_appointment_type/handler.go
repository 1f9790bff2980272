package update_appointment_type

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidTypeID      = "некорректный ID типа записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTypeData    = "некорректные данные типа записи"
	msgMissingBusinessID  = "отсутствует ID бизнеса"
	msgTypeNotFound       = "тип записи не найден"
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

// Handle PUT /api/v1/appointment-types/{typeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем typeId из URL
	vars := mux.Vars(r)
	typeIDStr := vars["typeId"]

	typeID, err := strconv.ParseInt(typeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointment-types/{id} - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointment-types/{id} - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Декодируем body
	var req models.UpdateTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointment-types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Обновляем тип записи
	result, err := h.service.UpdateType(r.Context(), businessID, typeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrTypeNotFound):
			h.logger.Warn("PUT /appointment-types/{id} - Type not found: type_id=%d, business_id=%d",
				typeID, businessID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PUT /appointment-types/{id} - Invalid type data: type_id=%d, error=%v",
				typeID, err)
			handlers.RespondBadRequest(w, msgInvalidTypeData)

		default:
			h.logger.Error("PUT /appointment-types/{id} - Failed to update type: type_id=%d, error=%v",
				typeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointment-types/{id} - Type updated successfully: type_id=%d, business_id=%d",
		typeID, businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
