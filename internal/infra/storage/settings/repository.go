package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMB-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с настройками бизнеса.
// Одна строка на бизнес (business_id - первичный ключ).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessID получает настройки бизнеса.
// Отсутствие строки - ErrSettingsNotFound: слой сервиса подставляет дефолты.
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"business_id",
		"open_time",
		"close_time",
		"working_days",
		"notify_client",
		"notify_owner",
		"updated_at",
	).
		From("business_settings").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BusinessSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.BusinessID,
		&s.OpenTime,
		&s.CloseTime,
		&s.WorkingDays,
		&s.NotifyClient,
		&s.NotifyOwner,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessID - scan settings: %v", ErrScanRow, err)
	}

	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или обновляет настройки бизнеса целиком
func (r *Repository) Upsert(ctx context.Context, s *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_settings").
		Columns(
			"business_id",
			"open_time",
			"close_time",
			"working_days",
			"notify_client",
			"notify_owner",
		).
		Values(
			s.BusinessID,
			s.OpenTime,
			s.CloseTime,
			s.WorkingDays,
			s.NotifyClient,
			s.NotifyOwner,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			working_days = EXCLUDED.working_days,
			notify_client = EXCLUDED.notify_client,
			notify_owner = EXCLUDED.notify_owner,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.Time

	return s, nil
}
