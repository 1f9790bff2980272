package catalog

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// TypeRepository интерфейс репозитория типов записей
type TypeRepository interface {
	Create(ctx context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error)
	GetByID(ctx context.Context, businessID, id int64) (*domain.AppointmentType, error)
	List(ctx context.Context, businessID int64, includeInactive bool) ([]*domain.AppointmentType, error)
	Update(ctx context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error)
	Deactivate(ctx context.Context, businessID, id int64) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	Update(ctx context.Context, b *domain.Business) (*domain.Business, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSettings, error)
	Upsert(ctx context.Context, s *domain.BusinessSettings) (*domain.BusinessSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
