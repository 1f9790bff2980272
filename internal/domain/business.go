package domain

import "time"

// Business represents a tenant: an isolated scheduling scope.
// Every catalog entry and appointment is partitioned by BusinessID.
type Business struct {
	ID         int64
	Name       string
	Slug       string // URL-safe, уникален; используется публичной страницей записи
	OwnerEmail string
	Timezone   string // IANA name, e.g. "Europe/Moscow"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the tenant's *time.Location, falling back to UTC
// when the stored timezone name is unknown.
func (b *Business) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
