package export_data

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	exportData "github.com/m04kA/SMB-AppointmentService/internal/usecase/export_data"
)

const (
	msgMissingBusinessID = "отсутствует ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	useCase ExportDataUseCase
	logger  Logger
}

func NewHandler(useCase ExportDataUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/data/export
//
// Бандл отдаётся как есть: формат тела совпадает с форматом,
// который принимает импорт.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("GET /data/export - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	bundle, err := h.useCase.Execute(r.Context(), &exportData.Request{BusinessID: businessID})
	if err != nil {
		switch {
		case errors.Is(err, exportData.ErrBusinessNotFound):
			h.logger.Warn("GET /data/export - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		default:
			h.logger.Error("GET /data/export - Failed to export data: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /data/export - Data exported successfully: business_id=%d, types=%d, appointments=%d",
		businessID, len(bundle.AppointmentTypes), len(bundle.Appointments))
	handlers.RespondJSON(w, http.StatusOK, bundle)
}
