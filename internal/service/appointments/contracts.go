package appointments

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, businessID, id int64) (*domain.Appointment, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, businessID, id int64, status domain.AppointmentStatus, reason *string) error
	Delete(ctx context.Context, businessID, id int64) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSettings, error)
}

// Mailer интерфейс клиента уведомлений
type Mailer interface {
	SendCancellation(ctx context.Context, info mailer.AppointmentInfo, reason *string) error
	SendStatusChange(ctx context.Context, info mailer.AppointmentInfo, newStatus string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
