package export_data

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
)

// UseCase use case для экспорта данных бизнеса
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        TypeRepository
	businessRepo    BusinessRepository
	settingsRepo    SettingsRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo TypeRepository,
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		businessRepo:    businessRepo,
		settingsRepo:    settingsRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case экспорта данных.
// Снапшот собирается в одной read-only транзакции, поэтому бандл
// консистентен даже при параллельных изменениях. Экспорт включает
// деактивированные типы и отменённые записи: это полная история бизнеса.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.ExportBundle, error) {
	uc.logger.Info("ExportData: business=%d", req.BusinessID)

	// 1. Валидация входных данных
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	// Переменная для хранения результата
	var bundle *domain.ExportBundle

	// 2. Читаем все данные бизнеса в одной read-only транзакции
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 2.1. Бизнес
		business, err := uc.businessRepo.GetByID(txCtx, req.BusinessID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrBusinessNotFound) {
				return ErrBusinessNotFound
			}
			uc.logger.Error("ExportData: failed to get business id=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}

		// 2.2. Настройки; если строка ещё не создана, экспортируем дефолты
		settings, err := uc.settingsRepo.GetByBusinessID(txCtx, req.BusinessID)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("ExportData: failed to get settings for business=%d: %v", req.BusinessID, err)
				return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
			}
			settings = domain.DefaultSettings(req.BusinessID)
		}

		// 2.3. Полный каталог, включая деактивированные типы
		appointmentTypes, err := uc.typeRepo.List(txCtx, req.BusinessID, true)
		if err != nil {
			uc.logger.Error("ExportData: failed to list types for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to list appointment types: %v", ErrInternal, err)
		}

		// 2.4. Все записи, включая отменённые
		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.AppointmentsFilter{
			BusinessID:       req.BusinessID,
			IncludeCancelled: true,
		})
		if err != nil {
			uc.logger.Error("ExportData: failed to get appointments for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		bundle = buildBundle(uc.timeProvider.Now().UTC(), business, settings, appointmentTypes, appointments)
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ExportData: business=%d exported %d types and %d appointments",
		req.BusinessID, len(bundle.AppointmentTypes), len(bundle.Appointments))

	return bundle, nil
}
