package get_availability

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов публичной страницы
type Request struct {
	Slug   string    // Slug бизнеса из URL публичной страницы
	TypeID int64     // ID типа записи, определяет шаг сетки слотов
	Date   time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time          // Дата, на которую запрашивались слоты
	TypeID          int64              // ID типа записи
	DurationMinutes int                // Длительность слота в минутах
	Slots           []types.TimeString // Времена начала свободных слотов
}
