package import_data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMB-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// UseCase use case для импорта бандла
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        TypeRepository
	businessRepo    BusinessRepository
	settingsRepo    SettingsRepository
	txManager       TransactionManager
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
		logger:          logger,
	}
}

// Execute выполняет use case импорта бандла.
// Весь импорт - одна сериализуемая транзакция: настройки, очистка и
// повторная вставка либо проходят целиком, либо данные бизнеса остаются
// нетронутыми. Пересечения записей на повторной вставке не проверяются:
// бандл считается внутренне согласованным, он создан экспортом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ImportData: business=%d", req.BusinessID)

	// 1. Валидация входных данных
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}
	if req.Bundle == nil {
		return nil, fmt.Errorf("%w: bundle is required", ErrInvalidInput)
	}

	// 2. Проверяем формат бандла целиком до любых записей в БД
	if err := validateBundle(req.Bundle); err != nil {
		uc.logger.Warn("ImportData: bundle validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	bundle := req.Bundle

	// Переменные для хранения результата
	var typesImported, appointmentsImported int

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Проверяем существование бизнеса
		business, err := uc.businessRepo.GetByID(txCtx, req.BusinessID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrBusinessNotFound) {
				return ErrBusinessNotFound
			}
			uc.logger.Error("ImportData: failed to get business id=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}

		// 3.2. Обновляем изменяемые поля бизнеса.
		// Slug из бандла игнорируется: это URL-идентичность бизнеса,
		// восстановление данных её не меняет.
		business.Name = bundle.Business.Name
		business.OwnerEmail = bundle.Business.OwnerEmail
		business.Timezone = bundle.Business.Timezone

		if _, err := uc.businessRepo.Update(txCtx, business); err != nil {
			uc.logger.Error("ImportData: failed to update business id=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to update business: %v", ErrInternal, err)
		}

		// 3.3. Перезаписываем настройки
		settings := &domain.BusinessSettings{
			BusinessID:   req.BusinessID,
			OpenTime:     types.TimeString(bundle.Settings.OpenTime),
			CloseTime:    types.TimeString(bundle.Settings.CloseTime),
			WorkingDays:  bundle.Settings.WorkingDays,
			NotifyClient: bundle.Settings.NotifyClient,
			NotifyOwner:  bundle.Settings.NotifyOwner,
		}

		if _, err := uc.settingsRepo.Upsert(txCtx, settings); err != nil {
			uc.logger.Error("ImportData: failed to upsert settings for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to upsert settings: %v", ErrInternal, err)
		}

		// 3.4. Удаляем текущие данные бизнеса.
		// Сначала записи, затем типы: записи ссылаются на типы.
		deletedAppointments, err := uc.appointmentRepo.DeleteAllByBusiness(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("ImportData: failed to delete appointments for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to delete appointments: %v", ErrInternal, err)
		}

		deletedTypes, err := uc.typeRepo.DeleteAllByBusiness(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("ImportData: failed to delete types for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to delete appointment types: %v", ErrInternal, err)
		}

		uc.logger.Info("ImportData: business=%d cleared %d appointments and %d types",
			req.BusinessID, deletedAppointments, deletedTypes)

		// 3.5. Вставляем типы, строя карту старый id -> новый id
		typeIDMap := make(map[int64]int64, len(bundle.AppointmentTypes))
		for i := range bundle.AppointmentTypes {
			row := &bundle.AppointmentTypes[i]

			created, err := uc.typeRepo.Create(txCtx, &domain.AppointmentType{
				BusinessID:      req.BusinessID,
				Name:            row.Name,
				DurationMinutes: row.DurationMinutes,
				PriceCents:      row.PriceCents,
				LocationMode:    domain.LocationMode(row.LocationMode),
				Color:           row.Color,
				Active:          row.Active,
			})
			if err != nil {
				uc.logger.Error("ImportData: failed to insert type %d for business=%d: %v", i, req.BusinessID, err)
				return fmt.Errorf("%w: failed to insert appointment type: %v", ErrInternal, err)
			}

			typeIDMap[row.ID] = created.ID
		}
		typesImported = len(bundle.AppointmentTypes)

		// 3.6. Вставляем записи, переводя ссылки на типы через карту.
		// Ссылка на тип, которого нет в бандле, обнуляется.
		for i := range bundle.Appointments {
			row := &bundle.Appointments[i]

			date, err := time.Parse(domain.DateFormat, row.Date)
			if err != nil {
				return fmt.Errorf("%w: failed to parse appointment date: %v", ErrInternal, err)
			}

			var typeID *int64
			if row.TypeID != nil {
				if newID, ok := typeIDMap[*row.TypeID]; ok {
					typeID = ptr.Ptr(newID)
				}
			}

			status, _ := domain.ParseStatus(row.Status)
			source, _ := domain.ParseSource(row.Source)

			title := row.Title
			if title == "" {
				title = domain.DefaultTitle
			}

			appt := &domain.Appointment{
				BusinessID:         req.BusinessID,
				TypeID:             typeID,
				Title:              title,
				ClientName:         row.ClientName,
				ClientEmail:        row.ClientEmail,
				Date:               date,
				StartTime:          types.TimeString(row.Time),
				DurationMinutes:    row.DurationMinutes,
				Location:           row.Location,
				Notes:              row.Notes,
				Status:             status,
				Source:             source,
				CancellationReason: row.CancellationReason,
				CancelledAt:        row.CancelledAt,
			}

			if _, err := uc.appointmentRepo.Create(txCtx, appt); err != nil {
				uc.logger.Error("ImportData: failed to insert appointment %d for business=%d: %v", i, req.BusinessID, err)
				return fmt.Errorf("%w: failed to insert appointment: %v", ErrInternal, err)
			}
		}
		appointmentsImported = len(bundle.Appointments)

		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("ImportData: serialization retries exhausted for business=%d", req.BusinessID)
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	uc.logger.Info("ImportData: business=%d imported %d types and %d appointments",
		req.BusinessID, typesImported, appointmentsImported)

	return &Response{
		TypesImported:        typesImported,
		AppointmentsImported: appointmentsImported,
	}, nil
}
