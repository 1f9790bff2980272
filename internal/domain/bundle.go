package domain

import "time"

// BundleVersion - текущая версия формата бандла экспорта
const BundleVersion = 1

// ExportBundle is the versioned snapshot of a tenant's data produced by
// export and consumed by import. The JSON shape is the wire format of
// the /data/export and /data/import endpoints and of backup files, so
// it is defined here rather than per-handler.
//
// Appointment types keep their original ids: import builds an
// old-id -> new-id map from them and remaps appointment references.
// Appointments carry no ids - they are reassigned on import.
type ExportBundle struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`

	Business         BundleBusiness          `json:"business"`
	Settings         BundleSettings          `json:"settings"`
	AppointmentTypes []BundleAppointmentType `json:"appointmentTypes"`
	Appointments     []BundleAppointment     `json:"appointments"`
}

// BundleBusiness - изменяемые поля бизнеса в бандле
type BundleBusiness struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	OwnerEmail string `json:"ownerEmail"`
	Timezone   string `json:"timezone"`
}

// BundleSettings - настройки бизнеса в бандле
type BundleSettings struct {
	OpenTime     string `json:"openTime"`
	CloseTime    string `json:"closeTime"`
	WorkingDays  int    `json:"workingDays"`
	NotifyClient bool   `json:"notifyClient"`
	NotifyOwner  bool   `json:"notifyOwner"`
}

// BundleAppointmentType - строка каталога в бандле.
// Экспорт включает и деактивированные типы: записи из истории ссылаются
// на них, и без полного каталога восстановление потеряло бы связи.
type BundleAppointmentType struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int    `json:"priceCents"`
	LocationMode    string `json:"locationMode"`
	Color           string `json:"color,omitempty"`
	Active          bool   `json:"active"`
}

// BundleAppointment - запись в бандле. TypeID ссылается на id типа
// внутри этого же бандла (старый id до импорта).
type BundleAppointment struct {
	TypeID             *int64     `json:"typeId,omitempty"`
	Title              string     `json:"title,omitempty"`
	ClientName         string     `json:"clientName"`
	ClientEmail        *string    `json:"clientEmail,omitempty"`
	Date               string     `json:"date"` // YYYY-MM-DD
	Time               string     `json:"time"` // HH:MM
	DurationMinutes    int        `json:"durationMinutes"`
	Location           string     `json:"location,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	Status             string     `json:"status"`
	Source             string     `json:"source"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}
