package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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

	if _, ok := domain.ParseSource(string(req.Source)); !ok {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, string(req.Source))
	}

	return nil
}

// findBlockingAppointment ищет первую запись, чей полуоткрытый интервал
// [start, end) пересекается с кандидатом. Строгие неравенства: записи,
// соприкасающиеся границами, совместимы. Отменённые записи слот не занимают.
func findBlockingAppointment(candStart, candEnd int, appointments []*domain.Appointment) *domain.Appointment {
	for _, appt := range appointments {
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
