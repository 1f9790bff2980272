package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов публичной страницы
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        TypeRepository
	businessRepo    BusinessRepository
	settingsRepo    SettingsRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo TypeRepository,
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		businessRepo:    businessRepo,
		settingsRepo:    settingsRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: slug=%s, type=%d, date=%s",
		req.Slug, req.TypeID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес по slug
	business, err := uc.businessRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailability: business slug=%s not found", req.Slug)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailability: failed to get business slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем тип записи из активного каталога.
	// Шаг сетки равен длительности типа, поэтому без типа слоты не считаются.
	apptType, err := uc.typeRepo.GetActiveByID(ctx, business.ID, req.TypeID)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			uc.logger.Warn("GetAvailability: type id=%d not found for business=%d", req.TypeID, business.ID)
			return nil, ErrTypeNotFound
		}
		uc.logger.Error("GetAvailability: failed to get type id=%d: %v", req.TypeID, err)
		return nil, fmt.Errorf("%w: failed to get appointment type: %v", ErrInternal, err)
	}

	// 4. Получаем настройки расписания; без строки настроек работают дефолты
	settings, err := uc.settingsRepo.GetByBusinessID(ctx, business.ID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailability: failed to get settings for business=%d: %v", business.ID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultSettings(business.ID)
	}

	// 5. Текущее время в таймзоне бизнеса: "сегодня" и "прошедший слот"
	// определяются по локальным часам бизнеса, а не сервера
	now := uc.timeProvider.Now()
	loc, err := time.LoadLocation(business.Timezone)
	if err != nil {
		uc.logger.Warn("GetAvailability: unknown timezone %q for business=%d, falling back to UTC",
			business.Timezone, business.ID)
		loc = time.UTC
	}
	localNow := now.In(loc)

	emptyResponse := &Response{
		Date:            req.Date,
		TypeID:          req.TypeID,
		DurationMinutes: apptType.DurationMinutes,
		Slots:           []types.TimeString{},
	}

	// 6. Прошедшая дата и нерабочий день отдают пустой список, не ошибку
	if isDateInPast(req.Date, localNow) {
		uc.logger.Info("GetAvailability: date %s is in the past for business=%d",
			req.Date.Format(domain.DateFormat), business.ID)
		return emptyResponse, nil
	}

	if !settings.IsWorkingDay(req.Date.Weekday()) {
		uc.logger.Info("GetAvailability: business=%d is closed on %s",
			business.ID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 7. Генерируем сетку слотов от открытия до закрытия
	slots, err := generateTimeSlots(settings.OpenTime, settings.CloseTime, apptType.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 8. Для сегодняшней даты убираем прошедшие слоты
	if isSameDay(req.Date, localNow) {
		slots = filterPastSlots(slots, types.NewTimeString(localNow))
	}

	// 9. Получаем записи дня и убираем занятые слоты
	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, domain.AppointmentsFilter{
		BusinessID:       business.ID,
		StartDate:        &req.Date,
		EndDate:          &req.Date,
		IncludeCancelled: false,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	available := filterFreeSlots(slots, apptType.DurationMinutes, appointments)

	uc.logger.Info("GetAvailability: %d of %d slots available for business=%d, type=%d, date=%s",
		len(available), len(slots), business.ID, req.TypeID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		TypeID:          req.TypeID,
		DurationMinutes: apptType.DurationMinutes,
		Slots:           available,
	}, nil
}
