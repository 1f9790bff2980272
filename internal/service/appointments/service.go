package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointment"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
	"github.com/m04kA/SMB-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	settingsRepo    SettingsRepository
	mailer          Mailer
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	mailer Mailer,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		settingsRepo:    settingsRepo,
		mailer:          mailer,
		logger:          logger,
	}
}

// GetByID получает запись по ID в рамках бизнеса
func (s *Service) GetByID(ctx context.Context, businessID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for business=%d", id, businessID)

	appt, err := s.appointmentRepo.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found for business=%d", id, businessID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по конкретной дате, периоду, статусу
// и включению отменённых записей
func (s *Service) List(ctx context.Context, req *models.GetAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("List: fetching appointments for business=%d", req.BusinessID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for business=%d", len(appts), req.BusinessID)
	return models.FromDomainAppointmentList(appts), nil
}

// SetStatus обновляет статус записи.
// Таблица переходов не применяется: владелец может перевести запись
// из любого статуса в любой, чтобы свободно исправлять ошибки.
// Переход в cancelled отправляет клиенту письмо об отмене (с причиной, если указана),
// любой другой переход - общее письмо о смене статуса.
// Ошибка отправки письма логируется и никогда не отменяет саму смену статуса.
func (s *Service) SetStatus(ctx context.Context, businessID, id int64, req *models.SetStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("SetStatus: updating appointment id=%d to status=%s for business=%d", id, req.Status, businessID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("SetStatus: cancellation reason too long for appointment id=%d", id)
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("SetStatus: appointment id=%d not found for business=%d", id, businessID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("SetStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	prevStatus := appt.Status

	if err := s.appointmentRepo.UpdateStatus(ctx, businessID, id, newStatus, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("SetStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	// Перечитываем запись: статус, причина и cancelled_at выставлены БД
	updated, err := s.appointmentRepo.GetByID(ctx, businessID, id)
	if err != nil {
		s.logger.Error("SetStatus: failed to reload appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - reload error: %v", ErrInternal, err)
	}

	// Уведомляем клиента только о фактической смене статуса
	if prevStatus != newStatus {
		s.notifyStatusChange(ctx, updated, newStatus, req.CancellationReason)
	}

	s.logger.Info("SetStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// Delete удаляет запись физически
func (s *Service) Delete(ctx context.Context, businessID, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d for business=%d", id, businessID)

	if err := s.appointmentRepo.Delete(ctx, businessID, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found for business=%d", id, businessID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}

// Вспомогательные методы

// notifyStatusChange отправляет клиенту письмо о смене статуса записи.
// Любая ошибка на этом пути логируется и не влияет на результат операции.
func (s *Service) notifyStatusChange(ctx context.Context, appt *domain.Appointment, newStatus domain.AppointmentStatus, reason *string) {
	if appt.ClientEmail == nil || *appt.ClientEmail == "" {
		return
	}

	settings, err := s.settingsRepo.GetByBusinessID(ctx, appt.BusinessID)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("notifyStatusChange: failed to load settings for business=%d: %v", appt.BusinessID, err)
			return
		}
		settings = domain.DefaultSettings(appt.BusinessID)
	}

	if !settings.NotifyClient {
		return
	}

	business, err := s.businessRepo.GetByID(ctx, appt.BusinessID)
	if err != nil {
		s.logger.Error("notifyStatusChange: failed to load business=%d: %v", appt.BusinessID, err)
		return
	}

	info := mailer.AppointmentInfo{
		BusinessName: business.Name,
		OwnerEmail:   business.OwnerEmail,
		ClientName:   appt.ClientName,
		ClientEmail:  *appt.ClientEmail,
		Title:        appt.Title,
		Date:         appt.Date.Format(domain.DateFormat),
		Time:         appt.StartTime.Format12Hour(),
		Location:     appt.Location,
	}

	if newStatus == domain.StatusCancelled {
		err = s.mailer.SendCancellation(ctx, info, reason)
	} else {
		err = s.mailer.SendStatusChange(ctx, info, string(newStatus))
	}

	if err != nil {
		s.logger.Error("notifyStatusChange: failed to send notification for appointment id=%d: %v", appt.ID, err)
	}
}
