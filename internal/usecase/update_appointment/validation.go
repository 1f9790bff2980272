package update_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ID <= 0 {
		return fmt.Errorf("%w: appointment ID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName exceeds %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.ClientEmail != nil {
		if _, err := mail.ParseAddress(*req.ClientEmail); err != nil {
			return fmt.Errorf("%w: clientEmail is not a valid address", ErrInvalidInput)
		}
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	// Явно заданная длительность должна быть положительной
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < domain.MinDurationMinutes || *req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// findBlockingAppointment ищет первую запись, чей полуоткрытый интервал
// [start, end) пересекается с кандидатом. Редактируемая запись (excludeID)
// из сравнения исключается: она не может конфликтовать сама с собой.
// Строгие неравенства: записи, соприкасающиеся границами, совместимы.
func findBlockingAppointment(candStart, candEnd int, excludeID int64, appointments []*domain.Appointment) *domain.Appointment {
	for _, appt := range appointments {
		if appt.ID == excludeID {
			continue
		}

		if !appt.BlocksSlot() {
			continue
		}

		otherStart, otherEnd, err := appt.Interval()
		if err != nil {
			// Некорректное время в существующей строке не должно блокировать день
			continue
		}

		if candStart < otherEnd && candEnd > otherStart {
			return appt
		}
	}

	return nil
}
