package domain

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentSource identifies which surface created the appointment
type AppointmentSource string

const (
	SourceOwner  AppointmentSource = "owner"
	SourcePublic AppointmentSource = "public"
)

// Appointment represents a booked time slot for a business
type Appointment struct {
	ID         int64
	BusinessID int64
	TypeID     *int64 // nil, когда тип удалён из каталога или не был указан

	Title       string
	ClientName  string
	ClientEmail *string

	Date            time.Time        // календарный день (в таймзоне бизнеса)
	StartTime       types.TimeString // "HH:MM"
	DurationMinutes int

	Location string
	Notes    *string

	Status AppointmentStatus
	Source AppointmentSource

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// BlocksSlot returns true if the appointment occupies its time interval.
// Cancelled appointments free their slot and do not participate in
// overlap checks.
func (a *Appointment) BlocksSlot() bool {
	return a.Status != StatusCancelled
}

// Interval returns the half-open interval [start, end) of the appointment
// in minutes since midnight.
func (a *Appointment) Interval() (start int, end int, err error) {
	start, err = a.StartTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.DurationMinutes, nil
}

// AppointmentsFilter фильтр для получения записей бизнеса
type AppointmentsFilter struct {
	BusinessID       int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые записи
}
