package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMB-AppointmentService/pkg/psqlbuilder"
)

var businessColumns = []string{
	"id",
	"name",
	"slug",
	"owner_email",
	"timezone",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бизнесами (тенантами).
// Создание бизнеса выполняется при регистрации вне этого сервиса,
// поэтому здесь только чтение и обновление изменяемых полей.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бизнес по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(businessColumns...).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBusiness(row.Scan)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan business: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetBySlug получает бизнес по slug (публичные маршруты)
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(businessColumns...).
		From("businesses").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBusiness(row.Scan)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - scan business: %v", ErrScanRow, err)
	}

	return b, nil
}

// Update обновляет изменяемые поля бизнеса.
// Slug не обновляется: это URL-идентичность публичной страницы,
// смена slug выполняется отдельной административной процедурой.
func (r *Repository) Update(ctx context.Context, b *domain.Business) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("businesses").
		Set("name", b.Name).
		Set("owner_email", b.OwnerEmail).
		Set("timezone", b.Timezone).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING slug, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.Slug,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// scanBusiness сканирует одну строку (порядок полей - businessColumns)
func scanBusiness(scan func(dest ...interface{}) error) (*domain.Business, error) {
	var b domain.Business
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&b.ID,
		&b.Name,
		&b.Slug,
		&b.OwnerEmail,
		&b.Timezone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
