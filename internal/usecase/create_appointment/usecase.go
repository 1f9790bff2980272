package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
	"github.com/m04kA/SMB-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        TypeRepository
	businessRepo    BusinessRepository
	settingsRepo    SettingsRepository
	mailer          Mailer
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo TypeRepository,
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	mailer Mailer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		businessRepo:    businessRepo,
		settingsRepo:    settingsRepo,
		mailer:          mailer,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются в одной сериализуемой
// транзакции с блокировкой записей дня, поэтому конкурентные создания
// на пересекающиеся интервалы не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, client=%q, date=%s, time=%s, source=%s",
		req.BusinessID, req.ClientName, req.Date.Format(domain.DateFormat), req.StartTime, req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Разрешаем тип записи по активному каталогу бизнеса.
		// Неактивный, чужой или несуществующий тип - не ошибка:
		// запись создаётся с дефолтами и без ссылки на тип.
		var apptType *domain.AppointmentType
		if req.TypeID != nil {
			t, err := uc.typeRepo.GetActiveByID(txCtx, req.BusinessID, *req.TypeID)
			if err != nil {
				if !errors.Is(err, typeRepo.ErrTypeNotFound) {
					uc.logger.Error("CreateAppointment: failed to resolve type id=%d: %v", *req.TypeID, err)
					return fmt.Errorf("%w: failed to resolve type: %v", ErrInternal, err)
				}
				uc.logger.Info("CreateAppointment: type id=%d not in active catalog of business=%d, using defaults",
					*req.TypeID, req.BusinessID)
			}
			apptType = t
		}

		// 3.2. Вычисляем эффективные длительность, название и место
		duration := resolveDuration(req.DurationMinutes, apptType)
		title := resolveTitle(apptType)
		location := resolveLocation(req.Location, apptType)

		// 3.3. Интервал кандидата; запись не может пересекать полночь
		candStart, err := req.StartTime.Minutes()
		if err != nil {
			return fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
		}
		if _, err := req.StartTime.AddMinutes(duration); err != nil {
			return fmt.Errorf("%w: appointment must end by midnight", ErrInvalidInput)
		}
		candEnd := candStart + duration

		// 3.4. Загружаем все незанятые отменой записи дня с блокировкой (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			BusinessID:       req.BusinessID,
			StartDate:        &req.Date,
			EndDate:          &req.Date,
			IncludeCancelled: false,
		}

		dayAppointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 3.5. Проверяем пересечения
		if blocking := findBlockingAppointment(candStart, candEnd, dayAppointments); blocking != nil {
			blockStart, blockEnd, _ := blocking.Interval()
			uc.logger.Warn("CreateAppointment: slot %s conflicts with appointment id=%d for business=%d",
				req.StartTime, blocking.ID, req.BusinessID)
			return &ConflictError{BlockStart: blockStart, BlockEnd: blockEnd}
		}

		// 3.6. Сохраняем запись со статусом confirmed
		appt := &domain.Appointment{
			BusinessID:      req.BusinessID,
			Title:           title,
			ClientName:      req.ClientName,
			ClientEmail:     req.ClientEmail,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Location:        location,
			Notes:           req.Notes,
			Status:          domain.StatusConfirmed,
			Source:          req.Source,
		}
		// Ссылка хранится только на реально разрешённый тип
		if apptType != nil {
			appt.TypeID = ptr.Ptr(apptType.ID)
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: serialization retries exhausted for business=%d date=%s",
				req.BusinessID, req.Date.Format(domain.DateFormat))
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 4. Отправляем уведомления после коммита.
	// Их исход попадает в ответ, но не влияет на созданную запись.
	summary := uc.sendNotifications(ctx, result)

	return buildResponse(result, summary), nil
}

// sendNotifications отправляет письма клиенту и владельцу согласно настройкам.
// Вызывается после коммита; все ошибки здесь только логируются.
func (uc *UseCase) sendNotifications(ctx context.Context, appt *domain.Appointment) NotificationSummary {
	summary := NotificationSummary{Provider: uc.mailer.Provider()}

	settings, err := uc.settingsRepo.GetByBusinessID(ctx, appt.BusinessID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateAppointment: failed to load settings for business=%d: %v", appt.BusinessID, err)
			return summary
		}
		settings = domain.DefaultSettings(appt.BusinessID)
	}

	if !settings.NotifyClient && !settings.NotifyOwner {
		return summary
	}

	business, err := uc.businessRepo.GetByID(ctx, appt.BusinessID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load business=%d for notifications: %v", appt.BusinessID, err)
		return summary
	}

	info := mailer.AppointmentInfo{
		BusinessName: business.Name,
		OwnerEmail:   business.OwnerEmail,
		ClientName:   appt.ClientName,
		Title:        appt.Title,
		Date:         appt.Date.Format(domain.DateFormat),
		Time:         appt.StartTime.Format12Hour(),
		Location:     appt.Location,
	}
	if appt.ClientEmail != nil {
		info.ClientEmail = *appt.ClientEmail
	}

	if settings.NotifyClient && info.ClientEmail != "" {
		if err := uc.mailer.SendClientConfirmation(ctx, info); err != nil {
			uc.logger.Error("CreateAppointment: client confirmation failed for appointment id=%d: %v", appt.ID, err)
		} else {
			summary.ClientNotified = true
		}
	}

	if settings.NotifyOwner {
		if err := uc.mailer.SendOwnerAlert(ctx, info); err != nil {
			uc.logger.Error("CreateAppointment: owner alert failed for appointment id=%d: %v", appt.ID, err)
		} else {
			summary.OwnerNotified = true
		}
	}

	return summary
}

// resolveDuration вычисляет длительность: явная из запроса, затем из типа,
// затем общий дефолт
func resolveDuration(explicit *int, t *domain.AppointmentType) int {
	if explicit != nil {
		return *explicit
	}
	if t != nil {
		return t.DurationMinutes
	}
	return domain.DefaultDurationMinutes
}

// resolveTitle вычисляет название: имя типа или общий дефолт
func resolveTitle(t *domain.AppointmentType) string {
	if t != nil {
		return t.Name
	}
	return domain.DefaultTitle
}

// resolveLocation вычисляет место: явное из запроса, затем ярлык режима типа
func resolveLocation(explicit *string, t *domain.AppointmentType) string {
	if explicit != nil {
		return *explicit
	}
	if t != nil {
		return t.LocationMode.Label()
	}
	return ""
}

func buildResponse(appt *domain.Appointment, summary NotificationSummary) *Response {
	return &Response{
		ID:              appt.ID,
		BusinessID:      appt.BusinessID,
		TypeID:          appt.TypeID,
		Title:           appt.Title,
		ClientName:      appt.ClientName,
		ClientEmail:     appt.ClientEmail,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Location:        appt.Location,
		Notes:           appt.Notes,
		Status:          string(appt.Status),
		Source:          string(appt.Source),
		Notifications:   summary,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
