package update_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointment"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	"github.com/m04kA/SMB-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
)

// UseCase use case для изменения записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        TypeRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo TypeRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case изменения записи.
// Проверка пересечений и обновление выполняются в одной сериализуемой
// транзакции, сама редактируемая запись из проверки исключается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: business=%d, id=%d, date=%s, time=%s",
		req.BusinessID, req.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Проверяем, что запись существует в рамках бизнеса.
		// Делаем это до проверки пересечений: для несуществующей записи
		// приоритет у NotFound, а не у конфликта слота.
		if _, err := uc.appointmentRepo.GetByID(txCtx, req.BusinessID, req.ID); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Разрешаем тип записи по активному каталогу бизнеса.
		// Неактивный, чужой или несуществующий тип - не ошибка:
		// поля пересчитываются от дефолтов, ссылка на тип обнуляется.
		var apptType *domain.AppointmentType
		if req.TypeID != nil {
			t, err := uc.typeRepo.GetActiveByID(txCtx, req.BusinessID, *req.TypeID)
			if err != nil {
				if !errors.Is(err, typeRepo.ErrTypeNotFound) {
					uc.logger.Error("UpdateAppointment: failed to resolve type id=%d: %v", *req.TypeID, err)
					return fmt.Errorf("%w: failed to resolve type: %v", ErrInternal, err)
				}
				uc.logger.Info("UpdateAppointment: type id=%d not in active catalog of business=%d, using defaults",
					*req.TypeID, req.BusinessID)
			}
			apptType = t
		}

		// 2.3. Вычисляем эффективные длительность, название и место
		duration := resolveDuration(req.DurationMinutes, apptType)
		title := resolveTitle(apptType)
		location := resolveLocation(req.Location, apptType)

		// 2.4. Интервал кандидата; запись не может пересекать полночь
		candStart, err := req.StartTime.Minutes()
		if err != nil {
			return fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
		}
		if _, err := req.StartTime.AddMinutes(duration); err != nil {
			return fmt.Errorf("%w: appointment must end by midnight", ErrInvalidInput)
		}
		candEnd := candStart + duration

		// 2.5. Загружаем все незанятые отменой записи нового дня с блокировкой (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			BusinessID:       req.BusinessID,
			StartDate:        &req.Date,
			EndDate:          &req.Date,
			IncludeCancelled: false,
		}

		dayAppointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 2.6. Проверяем пересечения, исключив редактируемую запись
		if blocking := findBlockingAppointment(candStart, candEnd, req.ID, dayAppointments); blocking != nil {
			blockStart, blockEnd, _ := blocking.Interval()
			uc.logger.Warn("UpdateAppointment: slot %s conflicts with appointment id=%d for business=%d",
				req.StartTime, blocking.ID, req.BusinessID)
			return &ConflictError{BlockStart: blockStart, BlockEnd: blockEnd}
		}

		// 2.7. Сохраняем обновленные поля. Статус, источник и данные отмены
		// не трогаем, репозиторий возвращает их текущие значения.
		appt := &domain.Appointment{
			ID:              req.ID,
			BusinessID:      req.BusinessID,
			Title:           title,
			ClientName:      req.ClientName,
			ClientEmail:     req.ClientEmail,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Location:        location,
			Notes:           req.Notes,
		}
		// Ссылка хранится только на реально разрешённый тип
		if apptType != nil {
			appt.TypeID = ptr.Ptr(apptType.ID)
		}

		updated, err := uc.appointmentRepo.Update(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to update appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("UpdateAppointment: serialization retries exhausted for business=%d id=%d",
				req.BusinessID, req.ID)
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%d", result.ID)

	return buildResponse(result), nil
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
