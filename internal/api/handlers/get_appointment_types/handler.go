package get_appointment_types

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
)

const (
	msgMissingBusinessID = "отсутствует ID бизнеса"
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

// Handle GET /api/v1/appointment-types?includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointment-types - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Нераспознанное значение трактуем как false, а не как ошибку
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive"))

	result, err := h.service.ListTypes(r.Context(), businessID, includeInactive)
	if err != nil {
		h.logger.Error("GET /appointment-types - Failed to list types: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointment-types - Types listed successfully: business_id=%d, count=%d",
		businessID, len(result.AppointmentTypes))
	handlers.RespondJSON(w, http.StatusOK, result)
}
