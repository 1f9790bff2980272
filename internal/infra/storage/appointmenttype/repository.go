package appointmenttype

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMB-AppointmentService/pkg/psqlbuilder"
)

var typeColumns = []string{
	"id",
	"business_id",
	"name",
	"duration_minutes",
	"price_cents",
	"location_mode",
	"color",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с типами записей.
// Типы никогда не удаляются физически вне импорта: деактивация скрывает тип
// из публичной страницы, но существующие записи продолжают на него ссылаться.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый тип записи
func (r *Repository) Create(ctx context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_types").
		Columns(
			"business_id",
			"name",
			"duration_minutes",
			"price_cents",
			"location_mode",
			"color",
			"active",
		).
		Values(
			t.BusinessID,
			t.Name,
			t.DurationMinutes,
			t.PriceCents,
			t.LocationMode,
			t.Color,
			t.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetByID получает тип записи по ID в рамках бизнеса (включая неактивные)
func (r *Repository) GetByID(ctx context.Context, businessID, id int64) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("appointment_types").
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	t, err := scanType(row.Scan)

	if err == sql.ErrNoRows {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan type: %v", ErrScanRow, err)
	}

	return t, nil
}

// GetActiveByID получает активный тип записи по ID в рамках бизнеса.
// Неактивный тип неотличим от несуществующего: ErrTypeNotFound в обоих случаях.
func (r *Repository) GetActiveByID(ctx context.Context, businessID, id int64) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("appointment_types").
		Where(squirrel.Eq{"id": id, "business_id": businessID, "active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	t, err := scanType(row.Scan)

	if err == sql.ErrNoRows {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByID - scan type: %v", ErrScanRow, err)
	}

	return t, nil
}

// List получает типы записей бизнеса.
// includeInactive = false возвращает только активные типы (публичная страница),
// true - все типы (панель владельца, экспорт).
func (r *Repository) List(ctx context.Context, businessID int64, includeInactive bool) ([]*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(typeColumns...).
		From("appointment_types").
		Where(squirrel.Eq{"business_id": businessID})

	if !includeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	types := make([]*domain.AppointmentType, 0)

	for rows.Next() {
		t, err := scanType(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return types, nil
}

// Update обновляет тип записи в рамках бизнеса
func (r *Repository) Update(ctx context.Context, t *domain.AppointmentType) (*domain.AppointmentType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_types").
		Set("name", t.Name).
		Set("duration_minutes", t.DurationMinutes).
		Set("price_cents", t.PriceCents).
		Set("location_mode", t.LocationMode).
		Set("color", t.Color).
		Set("active", t.Active).
		Where(squirrel.Eq{"id": t.ID, "business_id": t.BusinessID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// Deactivate помечает тип записи неактивным в рамках бизнеса
func (r *Repository) Deactivate(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_types").
		Set("active", false).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTypeNotFound
	}

	return nil
}

// DeleteAllByBusiness удаляет все типы записей бизнеса.
// Используется импортом бандла внутри его транзакции, после удаления записей.
func (r *Repository) DeleteAllByBusiness(ctx context.Context, businessID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_types").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAllByBusiness - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAllByBusiness - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAllByBusiness - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanType сканирует одну строку (порядок полей - typeColumns)
func scanType(scan func(dest ...interface{}) error) (*domain.AppointmentType, error) {
	var t domain.AppointmentType
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&t.ID,
		&t.BusinessID,
		&t.Name,
		&t.DurationMinutes,
		&t.PriceCents,
		&t.LocationMode,
		&t.Color,
		&t.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
