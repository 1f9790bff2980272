package import_data

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	DeleteAllByBusiness(ctx context.Context, businessID int64) (int64, error)
}

// TypeRepository интерфейс репозитория типов записей
type TypeRepository interface {
	Create(ctx context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error)
	DeleteAllByBusiness(ctx context.Context, businessID int64) (int64, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	Update(ctx context.Context, b *domain.Business) (*domain.Business, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Upsert(ctx context.Context, s *domain.BusinessSettings) (*domain.BusinessSettings, error)
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
