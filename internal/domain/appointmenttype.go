package domain

import "time"

// LocationMode describes where appointments of a type take place
type LocationMode string

const (
	LocationOffice  LocationMode = "office"
	LocationVirtual LocationMode = "virtual"
	LocationPhone   LocationMode = "phone"
	LocationHybrid  LocationMode = "hybrid"
)

// Valid reports whether the value is one of the known location modes
func (m LocationMode) Valid() bool {
	switch m {
	case LocationOffice, LocationVirtual, LocationPhone, LocationHybrid:
		return true
	}
	return false
}

// Label returns the human-readable location used as the appointment
// location default when the caller does not pass one explicitly.
func (m LocationMode) Label() string {
	switch m {
	case LocationOffice:
		return "Office"
	case LocationVirtual:
		return "Virtual"
	case LocationPhone:
		return "Phone"
	case LocationHybrid:
		return "Hybrid"
	default:
		return ""
	}
}

// AppointmentType represents a catalog entry of a business
type AppointmentType struct {
	ID         int64
	BusinessID int64

	Name            string
	DurationMinutes int
	PriceCents      int
	LocationMode    LocationMode
	Color           string

	// Каталог не удаляется физически: исторические записи хранят ссылку
	// на тип, поэтому деактивация - это active=false
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
