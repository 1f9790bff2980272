package update_appointment

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// Request модель запроса на изменение записи.
// Набор полей совпадает с созданием: PUT заменяет все редактируемые поля.
// Статус, источник и данные отмены этим запросом не меняются.
type Request struct {
	ID              int64            // ID записи
	BusinessID      int64            // ID бизнеса (из заголовка авторизации)
	TypeID          *int64           // ID типа записи (опционально, разрешается по активному каталогу)
	ClientName      string           // Имя клиента
	ClientEmail     *string          // Email клиента (опционально)
	Date            time.Time        // Дата записи (без времени)
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes *int             // Длительность в минутах (опционально)
	Location        *string          // Место проведения (опционально)
	Notes           *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с обновленной записью
type Response struct {
	ID              int64
	BusinessID      int64
	TypeID          *int64
	Title           string
	ClientName      string
	ClientEmail     *string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Location        string
	Notes           *string
	Status          string
	Source          string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func buildResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:                 appt.ID,
		BusinessID:         appt.BusinessID,
		TypeID:             appt.TypeID,
		Title:              appt.Title,
		ClientName:         appt.ClientName,
		ClientEmail:        appt.ClientEmail,
		Date:               appt.Date,
		StartTime:          appt.StartTime,
		DurationMinutes:    appt.DurationMinutes,
		Location:           appt.Location,
		Notes:              appt.Notes,
		Status:             string(appt.Status),
		Source:             string(appt.Source),
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}
