package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	typeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

// Service сервис для работы с каталогом бизнеса:
// типы записей, профиль, настройки расписания и публичная страница
type Service struct {
	typeRepo     TypeRepository
	businessRepo BusinessRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	typeRepo TypeRepository,
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		typeRepo:     typeRepo,
		businessRepo: businessRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateType создает новый тип записи
func (s *Service) CreateType(ctx context.Context, businessID int64, req *models.CreateTypeRequest) (*models.TypeResponse, error) {
	s.logger.Info("CreateType: creating type %q for business=%d", req.Name, businessID)

	// 1. Валидируем входные данные
	if err := s.validateTypeData(req.Name, req.DurationMinutes, req.PriceCents, domain.LocationMode(req.LocationMode)); err != nil {
		s.logger.Warn("CreateType: validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	// 2. Проверяем существование бизнеса
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("CreateType: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("CreateType: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Создаем тип записи
	created, err := s.typeRepo.Create(ctx, req.ToDomainType(businessID))
	if err != nil {
		s.logger.Error("CreateType: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: CreateType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateType: successfully created type id=%d for business=%d", created.ID, businessID)
	return models.FromDomainType(created), nil
}

// ListTypes получает типы записей бизнеса.
// По умолчанию возвращаются только активные типы; includeInactive=true
// добавляет деактивированные (панель владельца, повторная активация).
func (s *Service) ListTypes(ctx context.Context, businessID int64, includeInactive bool) (*models.TypeListResponse, error) {
	s.logger.Info("ListTypes: fetching types for business=%d, includeInactive=%t", businessID, includeInactive)

	list, err := s.typeRepo.List(ctx, businessID, includeInactive)
	if err != nil {
		s.logger.Error("ListTypes: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListTypes - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListTypes: successfully fetched %d types for business=%d", len(list), businessID)
	return models.FromDomainTypeList(list), nil
}

// UpdateType обновляет тип записи
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) UpdateType(ctx context.Context, businessID, typeID int64, req *models.UpdateTypeRequest) (*models.TypeResponse, error) {
	s.logger.Info("UpdateType: updating type id=%d for business=%d", typeID, businessID)

	// 1. Получаем существующий тип (включая деактивированные: их можно вернуть в каталог)
	t, err := s.typeRepo.GetByID(ctx, businessID, typeID)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			s.logger.Warn("UpdateType: type id=%d not found for business=%d", typeID, businessID)
			return nil, ErrTypeNotFound
		}
		s.logger.Error("UpdateType: repository error for type id=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: UpdateType - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем обновления к копии для валидации
	tempType := *t
	req.ApplyToType(&tempType)

	// 3. Валидируем обновлённые данные
	if err := s.validateTypeData(tempType.Name, tempType.DurationMinutes, tempType.PriceCents, tempType.LocationMode); err != nil {
		s.logger.Warn("UpdateType: validation failed for type id=%d: %v", typeID, err)
		return nil, err
	}

	// 4. Применяем обновления и сохраняем
	req.ApplyToType(t)

	updated, err := s.typeRepo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			return nil, ErrTypeNotFound
		}
		s.logger.Error("UpdateType: repository error for type id=%d: %v", typeID, err)
		return nil, fmt.Errorf("%w: UpdateType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateType: successfully updated type id=%d", typeID)
	return models.FromDomainType(updated), nil
}

// DeactivateType деактивирует тип записи (мягкое удаление).
// Существующие записи сохраняют ссылку на тип.
func (s *Service) DeactivateType(ctx context.Context, businessID, typeID int64) error {
	s.logger.Info("DeactivateType: deactivating type id=%d for business=%d", typeID, businessID)

	if err := s.typeRepo.Deactivate(ctx, businessID, typeID); err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			s.logger.Warn("DeactivateType: type id=%d not found for business=%d", typeID, businessID)
			return ErrTypeNotFound
		}
		s.logger.Error("DeactivateType: repository error for type id=%d: %v", typeID, err)
		return fmt.Errorf("%w: DeactivateType - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateType: successfully deactivated type id=%d", typeID)
	return nil
}

// GetSettings получает профиль бизнеса и его настройки.
// Если строка настроек ещё не создана, возвращаются значения по умолчанию.
func (s *Service) GetSettings(ctx context.Context, businessID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for business=%d", businessID)

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("GetSettings: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetSettings: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	settings, err := s.loadSettingsOrDefaults(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBusinessAndSettings(business, settings), nil
}

// UpdateSettings обновляет профиль бизнеса и настройки расписания.
// Поддерживает частичное обновление; профиль и настройки пишутся
// в одной транзакции.
func (s *Service) UpdateSettings(ctx context.Context, businessID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for business=%d", businessID)

	// 1. Получаем текущий профиль бизнеса
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("UpdateSettings: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("UpdateSettings: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 2. Получаем текущие настройки (либо дефолты, если строки ещё нет)
	settings, err := s.loadSettingsOrDefaults(ctx, businessID)
	if err != nil {
		return nil, err
	}
	settingsMissing := settings.UpdatedAt.IsZero()

	// 3. Применяем обновления к копиям и валидируем результат
	tempBusiness := *business
	tempSettings := *settings
	req.ApplyToBusiness(&tempBusiness)
	req.ApplyToSettings(&tempSettings)

	if err := s.validateBusinessData(&tempBusiness); err != nil {
		s.logger.Warn("UpdateSettings: business validation failed for business=%d: %v", businessID, err)
		return nil, err
	}
	if err := s.validateSettingsData(&tempSettings); err != nil {
		s.logger.Warn("UpdateSettings: settings validation failed for business=%d: %v", businessID, err)
		return nil, err
	}

	// 4. Сохраняем профиль и настройки в одной транзакции
	req.ApplyToBusiness(business)
	req.ApplyToSettings(settings)

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if req.HasBusinessChanges() {
			if _, err := s.businessRepo.Update(ctx, business); err != nil {
				return fmt.Errorf("update business: %w", err)
			}
		}
		if req.HasSettingsChanges() || settingsMissing {
			if _, err := s.settingsRepo.Upsert(ctx, settings); err != nil {
				return fmt.Errorf("upsert settings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateSettings: transaction failed for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for business=%d", businessID)
	return models.FromDomainBusinessAndSettings(business, settings), nil
}

// GetPublicPage получает публичную страницу бизнеса по slug:
// профиль без контактов владельца и активные типы записей
func (s *Service) GetPublicPage(ctx context.Context, slug string) (*models.PublicPageResponse, error) {
	s.logger.Info("GetPublicPage: fetching page for slug=%s", slug)

	business, err := s.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("GetPublicPage: business slug=%s not found", slug)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetPublicPage: failed to get business slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	list, err := s.typeRepo.List(ctx, business.ID, false)
	if err != nil {
		s.logger.Error("GetPublicPage: repository error for business=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: GetPublicPage - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPublicPage: successfully fetched page for slug=%s with %d types", slug, len(list))
	return models.FromDomainPublicPage(business, list), nil
}

// ResolveSlug возвращает ID бизнеса по публичному slug.
// Используется публичными ручками: внутрь системы они ходят уже с ID.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (int64, error) {
	business, err := s.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("ResolveSlug: business slug=%s not found", slug)
			return 0, ErrBusinessNotFound
		}
		s.logger.Error("ResolveSlug: failed to get business slug=%s: %v", slug, err)
		return 0, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	return business.ID, nil
}

// Вспомогательные методы

// loadSettingsOrDefaults получает настройки бизнеса, подставляя дефолты,
// если строка ещё не создана
func (s *Service) loadSettingsOrDefaults(ctx context.Context, businessID int64) (*domain.BusinessSettings, error) {
	settings, err := s.settingsRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultSettings(businessID), nil
		}
		s.logger.Error("loadSettingsOrDefaults: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// validateTypeData валидирует параметры типа записи
func (s *Service) validateTypeData(name string, durationMinutes, priceCents int, mode domain.LocationMode) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if priceCents < 0 {
		return fmt.Errorf("%w: priceCents must not be negative", ErrInvalidInput)
	}

	if !mode.Valid() {
		return fmt.Errorf("%w: locationMode must be one of office, virtual, phone, hybrid", ErrInvalidInput)
	}

	return nil
}

// validateBusinessData валидирует изменяемые поля профиля бизнеса
func (s *Service) validateBusinessData(b *domain.Business) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(b.OwnerEmail); err != nil {
		return fmt.Errorf("%w: ownerEmail is not a valid address", ErrInvalidInput)
	}

	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("%w: timezone is not a valid IANA name", ErrInvalidInput)
	}

	return nil
}

// validateSettingsData валидирует настройки расписания
func (s *Service) validateSettingsData(settings *domain.BusinessSettings) error {
	if err := settings.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: openTime must be HH:MM", ErrInvalidInput)
	}

	if err := settings.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime must be HH:MM", ErrInvalidInput)
	}

	if !settings.OpenTime.IsBefore(settings.CloseTime) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	if settings.WorkingDays < 0 || settings.WorkingDays > domain.MaxWorkingDaysMask {
		return fmt.Errorf("%w: workingDays must be a bitmask between 0 and %d", ErrInvalidInput, domain.MaxWorkingDaysMask)
	}

	return nil
}
