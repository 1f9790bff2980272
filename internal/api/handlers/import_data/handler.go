package import_data

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMB-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	importData "github.com/m04kA/SMB-AppointmentService/internal/usecase/import_data"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBundle      = "некорректный бандл данных"
	msgMissingBusinessID  = "отсутствует ID бизнеса"
	msgBusinessNotFound   = "бизнес не найден"
	msgConcurrentUpdate   = "данные изменены параллельно, повторите запрос"
)

type Handler struct {
	useCase ImportDataUseCase
	logger  Logger
}

func NewHandler(useCase ImportDataUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/data/import
//
// Импорт принимает бандл в том же формате, что отдаёт экспорт,
// и заменяет данные бизнеса целиком. Любая некорректная строка
// отклоняет весь бандл без изменений в БД.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем businessID из контекста (через middleware Auth)
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		h.logger.Warn("POST /data/import - Missing business ID")
		handlers.RespondUnauthorized(w, msgMissingBusinessID)
		return
	}

	// Декодируем бандл
	var bundle domain.ExportBundle
	if err := handlers.DecodeJSON(r, &bundle); err != nil {
		h.logger.Warn("POST /data/import - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Импортируем данные
	result, err := h.useCase.Execute(r.Context(), &importData.Request{
		BusinessID: businessID,
		Bundle:     &bundle,
	})
	if err != nil {
		switch {
		case errors.Is(err, importData.ErrInvalidBundle):
			// Детали (какая строка не прошла) остаются в логе
			h.logger.Warn("POST /data/import - Invalid bundle: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, msgInvalidBundle)

		case errors.Is(err, importData.ErrBusinessNotFound):
			h.logger.Warn("POST /data/import - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, importData.ErrConcurrentUpdate):
			h.logger.Warn("POST /data/import - Concurrent update: business_id=%d", businessID)
			handlers.RespondError(w, http.StatusConflict, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /data/import - Failed to import data: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /data/import - Data imported successfully: business_id=%d, types=%d, appointments=%d",
		businessID, result.TypesImported, result.AppointmentsImported)
	handlers.RespondJSON(w, http.StatusOK, result)
}
