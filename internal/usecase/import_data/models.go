package import_data

import (
	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// Request модель запроса на импорт бандла
type Request struct {
	BusinessID int64                // ID бизнеса (из заголовка авторизации)
	Bundle     *domain.ExportBundle // Бандл, ранее полученный экспортом
}

// Response модель ответа с количеством импортированных строк
type Response struct {
	TypesImported        int // Количество восстановленных типов записей
	AppointmentsImported int // Количество восстановленных записей
}
