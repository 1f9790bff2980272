package delete_appointment_type

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
)

const (
	msgInvalidTypeID     = "некорректный ID типа записи"
	msgMissingBusinessID = "отсутствует ID бизнеса"
	msgTypeNotFound      = "тип записи не найден"
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

// Handle DELETE /api/v1/appointment-types/{typeId}
//
// Тип деактивируется, а не удаляется: существующие записи продолжают
// ссылаться на него в истории.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем typeId из URL
	vars := mux.Vars(r)
	typeIDStr := vars["typeId"]

	typeID, err := strconv.ParseInt(typeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /appointment-types/{id} - Invalid type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /appointment-types/{id} - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Деактивируем тип записи
	if err := h.service.DeactivateType(r.Context(), businessID, typeID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrTypeNotFound):
			h.logger.Warn("DELETE /appointment-types/{id} - Type not found: type_id=%d, business_id=%d",
				typeID, businessID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		default:
			h.logger.Error("DELETE /appointment-types/{id} - Failed to deactivate type: type_id=%d, error=%v",
				typeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /appointment-types/{id} - Type deactivated successfully: type_id=%d, business_id=%d",
		typeID, businessID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
