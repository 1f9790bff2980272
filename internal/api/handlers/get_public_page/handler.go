package get_public_page

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
)

const (
	msgBusinessNotFound = "страница не найдена"
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

// Handle GET /api/v1/public/{slug}
//
// Публичная ручка без авторизации: отдаёт только витрину бизнеса
// и активные типы записи.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем slug из URL
	vars := mux.Vars(r)
	slug := vars["slug"]

	result, err := h.service.GetPublicPage(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrBusinessNotFound):
			h.logger.Warn("GET /public/{slug} - Business not found: slug=%q", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /public/{slug} - Failed to get public page: slug=%q, error=%v",
				slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/{slug} - Public page retrieved successfully: slug=%q", slug)
	handlers.RespondJSON(w, http.StatusOK, result)
}
