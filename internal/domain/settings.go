package domain

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// BusinessSettings represents the per-tenant scheduling configuration.
// One row per business, created with defaults at signup.
type BusinessSettings struct {
	BusinessID int64

	OpenTime  types.TimeString // начало рабочего дня, "HH:MM"
	CloseTime types.TimeString // конец рабочего дня, "HH:MM"

	// WorkingDays - битовая маска рабочих дней: Mon=1<<0 ... Sun=1<<6
	WorkingDays int

	NotifyClient bool // отправлять ли клиенту письмо-подтверждение
	NotifyOwner  bool // отправлять ли владельцу письмо о новой записи

	UpdatedAt time.Time
}

// IsWorkingDay reports whether the given weekday is enabled in the
// WorkingDays bitmask.
func (s *BusinessSettings) IsWorkingDay(day time.Weekday) bool {
	// time.Weekday нумерует с воскресенья (Sunday=0), маска - с понедельника
	idx := (int(day) + 6) % 7
	return s.WorkingDays&(1<<idx) != 0
}

// DefaultSettings returns the settings a business starts with:
// 09:00-17:00, Monday through Friday, both notifications enabled.
func DefaultSettings(businessID int64) *BusinessSettings {
	return &BusinessSettings{
		BusinessID:   businessID,
		OpenTime:     types.TimeString(DefaultOpenTime),
		CloseTime:    types.TimeString(DefaultCloseTime),
		WorkingDays:  DefaultWorkingDays,
		NotifyClient: true,
		NotifyOwner:  true,
	}
}
