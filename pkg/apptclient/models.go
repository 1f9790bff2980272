package apptclient

import "time"

// Wire models mirror the server's JSON exactly; the client performs no
// interpretation beyond decoding.

// Appointment одна запись в календаре бизнеса
type Appointment struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	TypeID          *int64  `json:"typeId,omitempty"`
	Title           string  `json:"title"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"` // "2025-10-15"
	Time            string  `json:"time"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          string  `json:"status"`
	Source          string  `json:"source"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentList список записей
type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
}

// AppointmentType тип записи из каталога бизнеса
type AppointmentType struct {
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

// TypeList список типов записи
type TypeList struct {
	AppointmentTypes []AppointmentType `json:"appointmentTypes"`
}

// Business профиль бизнеса
type Business struct {
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

// Settings профиль бизнеса вместе с настройками
type Settings struct {
	Business Business     `json:"business"`
	Settings SettingsData `json:"settings"`
}

// Availability свободные слоты на дату
type Availability struct {
	Date            string   `json:"date"`
	TypeID          int64    `json:"typeId"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
}

// ImportResult счётчики импортированного бандла
type ImportResult struct {
	TypesImported        int `json:"typesImported"`
	AppointmentsImported int `json:"appointmentsImported"`
}

// CreateAppointmentRequest тело POST /appointments
type CreateAppointmentRequest struct {
	TypeID          *int64  `json:"typeId,omitempty"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// UpdateAppointmentRequest тело PUT /appointments/{id}
type UpdateAppointmentRequest = CreateAppointmentRequest

// SetStatusRequest тело PATCH /appointments/{id}/status
type SetStatusRequest struct {
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateSettingsRequest тело PUT /settings, все поля опциональны
type UpdateSettingsRequest struct {
	Name         *string `json:"name,omitempty"`
	OwnerEmail   *string `json:"ownerEmail,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	OpenTime     *string `json:"openTime,omitempty"`
	CloseTime    *string `json:"closeTime,omitempty"`
	WorkingDays  *int    `json:"workingDays,omitempty"`
	NotifyClient *bool   `json:"notifyClient,omitempty"`
	NotifyOwner  *bool   `json:"notifyOwner,omitempty"`
}

// ListAppointmentsOptions фильтры GET /appointments
type ListAppointmentsOptions struct {
	Date             string // "YYYY-MM-DD", приоритетнее периода
	From             string
	To               string
	Status           string
	IncludeCancelled bool
}
