package domain

// Default values
const (
	// DefaultDurationMinutes используется, когда длительность не задана ни
	// в запросе, ни в типе записи
	DefaultDurationMinutes = 45

	// DefaultTitle используется, когда запись создана без типа
	DefaultTitle = "Appointment"

	DefaultOpenTime    = "09:00"
	DefaultCloseTime   = "17:00"
	DefaultWorkingDays = 31 // Пн-Пт: биты 0..4
)

// Business validation constants
const (
	MinDurationMinutes          = 1
	MaxDurationMinutes          = 24 * 60 // запись не может пересекать полночь
	MaxClientNameLength         = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxWorkingDaysMask          = 127 // все семь битов
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот.
// Используется при фильтрации для проверки пересечений: отменённая
// запись освобождает своё время.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// ParseStatus converts a string into a known AppointmentStatus
func ParseStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return AppointmentStatus(s), true
	}
	return "", false
}

// ParseSource converts a string into a known AppointmentSource
func ParseSource(s string) (AppointmentSource, bool) {
	switch AppointmentSource(s) {
	case SourceOwner, SourcePublic:
		return AppointmentSource(s), true
	}
	return "", false
}
