package create_appointment

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID      int64                    // ID бизнеса (из заголовка авторизации или slug)
	TypeID          *int64                   // ID типа записи (опционально, разрешается по активному каталогу)
	ClientName      string                   // Имя клиента
	ClientEmail     *string                  // Email клиента (опционально)
	Date            time.Time                // Дата записи (без времени)
	StartTime       types.TimeString         // Время начала (например, "10:00")
	DurationMinutes *int                     // Длительность в минутах (опционально)
	Location        *string                  // Место проведения (опционально)
	Notes           *string                  // Дополнительные заметки (опционально)
	Source          domain.AppointmentSource // Какая поверхность создала запись
}

// NotificationSummary итог отправки уведомлений после создания записи.
// Отправка выполняется после коммита и не влияет на результат операции.
type NotificationSummary struct {
	Provider       string // Провайдер доставки ("smtp")
	ClientNotified bool   // Письмо-подтверждение клиенту отправлено
	OwnerNotified  bool   // Письмо владельцу отправлено
}

// Response модель ответа с созданной записью
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

	Notifications NotificationSummary

	CreatedAt time.Time
	UpdatedAt time.Time
}
