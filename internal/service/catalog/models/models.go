package models

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// Request модели

// CreateTypeRequest запрос на создание типа записи
type CreateTypeRequest struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	PriceCents      int     `json:"priceCents"`
	LocationMode    string  `json:"locationMode"`
	Color           *string `json:"color,omitempty"`
}

// ToDomainType конвертирует request в domain модель
func (r *CreateTypeRequest) ToDomainType(businessID int64) *domain.AppointmentType {
	t := &domain.AppointmentType{
		BusinessID:      businessID,
		Name:            r.Name,
		DurationMinutes: r.DurationMinutes,
		PriceCents:      r.PriceCents,
		LocationMode:    domain.LocationMode(r.LocationMode),
		Active:          true,
	}
	if r.Color != nil {
		t.Color = *r.Color
	}
	return t
}

// UpdateTypeRequest запрос на частичное обновление типа записи
// Обновляются только указанные поля; Active=true возвращает
// деактивированный тип в каталог
type UpdateTypeRequest struct {
	Name            *string `json:"name,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	PriceCents      *int    `json:"priceCents,omitempty"`
	LocationMode    *string `json:"locationMode,omitempty"`
	Color           *string `json:"color,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// ApplyToType применяет частичное обновление к domain модели
func (r *UpdateTypeRequest) ApplyToType(t *domain.AppointmentType) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.DurationMinutes != nil {
		t.DurationMinutes = *r.DurationMinutes
	}
	if r.PriceCents != nil {
		t.PriceCents = *r.PriceCents
	}
	if r.LocationMode != nil {
		t.LocationMode = domain.LocationMode(*r.LocationMode)
	}
	if r.Color != nil {
		t.Color = *r.Color
	}
	if r.Active != nil {
		t.Active = *r.Active
	}
}

// UpdateSettingsRequest запрос на частичное обновление профиля и настроек бизнеса
type UpdateSettingsRequest struct {
	// Профиль бизнеса
	Name       *string `json:"name,omitempty"`
	OwnerEmail *string `json:"ownerEmail,omitempty"`
	Timezone   *string `json:"timezone,omitempty"`

	// Настройки расписания и уведомлений
	OpenTime     *string `json:"openTime,omitempty"`
	CloseTime    *string `json:"closeTime,omitempty"`
	WorkingDays  *int    `json:"workingDays,omitempty"`
	NotifyClient *bool   `json:"notifyClient,omitempty"`
	NotifyOwner  *bool   `json:"notifyOwner,omitempty"`
}

// HasBusinessChanges указывает, затрагивает ли запрос профиль бизнеса
func (r *UpdateSettingsRequest) HasBusinessChanges() bool {
	return r.Name != nil || r.OwnerEmail != nil || r.Timezone != nil
}

// HasSettingsChanges указывает, затрагивает ли запрос настройки расписания
func (r *UpdateSettingsRequest) HasSettingsChanges() bool {
	return r.OpenTime != nil || r.CloseTime != nil || r.WorkingDays != nil ||
		r.NotifyClient != nil || r.NotifyOwner != nil
}

// ApplyToBusiness применяет частичное обновление к профилю бизнеса
func (r *UpdateSettingsRequest) ApplyToBusiness(b *domain.Business) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.OwnerEmail != nil {
		b.OwnerEmail = *r.OwnerEmail
	}
	if r.Timezone != nil {
		b.Timezone = *r.Timezone
	}
}

// ApplyToSettings применяет частичное обновление к настройкам бизнеса
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.BusinessSettings) {
	if r.OpenTime != nil {
		s.OpenTime = types.TimeString(*r.OpenTime)
	}
	if r.CloseTime != nil {
		s.CloseTime = types.TimeString(*r.CloseTime)
	}
	if r.WorkingDays != nil {
		s.WorkingDays = *r.WorkingDays
	}
	if r.NotifyClient != nil {
		s.NotifyClient = *r.NotifyClient
	}
	if r.NotifyOwner != nil {
		s.NotifyOwner = *r.NotifyOwner
	}
}

// Response модели

// TypeResponse ответ с данными типа записи
type TypeResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int    `json:"priceCents"`
	LocationMode    string `json:"locationMode"`
	Color           string `json:"color,omitempty"`
	Active          bool   `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TypeListResponse ответ со списком типов записей
type TypeListResponse struct {
	AppointmentTypes []TypeResponse `json:"appointmentTypes"`
}

// BusinessResponse ответ с профилем бизнеса
type BusinessResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	OwnerEmail string `json:"ownerEmail"`
	Timezone   string `json:"timezone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingsData настройки расписания и уведомлений
type SettingsData struct {
	OpenTime     string    `json:"openTime"`
	CloseTime    string    `json:"closeTime"`
	WorkingDays  int       `json:"workingDays"`
	NotifyClient bool      `json:"notifyClient"`
	NotifyOwner  bool      `json:"notifyOwner"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SettingsResponse ответ с профилем бизнеса и его настройками
type SettingsResponse struct {
	Business BusinessResponse `json:"business"`
	Settings SettingsData     `json:"settings"`
}

// PublicBusinessInfo публичная часть профиля бизнеса.
// Контакты владельца наружу не отдаются.
type PublicBusinessInfo struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
}

// PublicTypeInfo публичная часть типа записи
type PublicTypeInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int    `json:"priceCents"`
	LocationMode    string `json:"locationMode"`
	Color           string `json:"color,omitempty"`
}

// PublicPageResponse ответ публичной страницы записи
type PublicPageResponse struct {
	Business         PublicBusinessInfo `json:"business"`
	AppointmentTypes []PublicTypeInfo   `json:"appointmentTypes"`
}

// Методы конвертации

// FromDomainType конвертирует domain модель в DTO
func FromDomainType(t *domain.AppointmentType) *TypeResponse {
	if t == nil {
		return nil
	}

	return &TypeResponse{
		ID:              t.ID,
		BusinessID:      t.BusinessID,
		Name:            t.Name,
		DurationMinutes: t.DurationMinutes,
		PriceCents:      t.PriceCents,
		LocationMode:    string(t.LocationMode),
		Color:           t.Color,
		Active:          t.Active,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromDomainTypeList конвертирует список domain моделей в DTO
func FromDomainTypeList(list []*domain.AppointmentType) *TypeListResponse {
	resp := &TypeListResponse{
		AppointmentTypes: make([]TypeResponse, 0, len(list)),
	}

	for _, t := range list {
		if typeResp := FromDomainType(t); typeResp != nil {
			resp.AppointmentTypes = append(resp.AppointmentTypes, *typeResp)
		}
	}

	return resp
}

// FromDomainBusinessAndSettings собирает ответ настроек из domain моделей
func FromDomainBusinessAndSettings(b *domain.Business, s *domain.BusinessSettings) *SettingsResponse {
	return &SettingsResponse{
		Business: BusinessResponse{
			ID:         b.ID,
			Name:       b.Name,
			Slug:       b.Slug,
			OwnerEmail: b.OwnerEmail,
			Timezone:   b.Timezone,
			CreatedAt:  b.CreatedAt,
			UpdatedAt:  b.UpdatedAt,
		},
		Settings: SettingsData{
			OpenTime:     s.OpenTime.String(),
			CloseTime:    s.CloseTime.String(),
			WorkingDays:  s.WorkingDays,
			NotifyClient: s.NotifyClient,
			NotifyOwner:  s.NotifyOwner,
			UpdatedAt:    s.UpdatedAt,
		},
	}
}

// FromDomainPublicPage собирает публичную страницу из domain моделей
func FromDomainPublicPage(b *domain.Business, list []*domain.AppointmentType) *PublicPageResponse {
	resp := &PublicPageResponse{
		Business: PublicBusinessInfo{
			Name:     b.Name,
			Slug:     b.Slug,
			Timezone: b.Timezone,
		},
		AppointmentTypes: make([]PublicTypeInfo, 0, len(list)),
	}

	for _, t := range list {
		resp.AppointmentTypes = append(resp.AppointmentTypes, PublicTypeInfo{
			ID:              t.ID,
			Name:            t.Name,
			DurationMinutes: t.DurationMinutes,
			PriceCents:      t.PriceCents,
			LocationMode:    string(t.LocationMode),
			Color:           t.Color,
		})
	}

	return resp
}
