package create_appointment

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// TypeRepository интерфейс репозитория типов записей
type TypeRepository interface {
	GetActiveByID(ctx context.Context, businessID, id int64) (*domain.AppointmentType, error)
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
	Provider() string
	SendClientConfirmation(ctx context.Context, info mailer.AppointmentInfo) error
	SendOwnerAlert(ctx context.Context, info mailer.AppointmentInfo) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
