package get_availability

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// generateTimeSlots генерирует сетку слотов от открытия до закрытия
// с шагом в длительность типа записи. Слот, не успевающий закончиться
// до закрытия, в сетку не попадает.
func generateTimeSlots(openTime, closeTime types.TimeString, stepMinutes int) ([]types.TimeString, error) {
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		slotEnd, err := currentSlot.AddMinutes(stepMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot = slotEnd
	}

	return allSlots, nil
}

// filterPastSlots оставляет только слоты, начинающиеся не раньше minAllowed.
// Используется для сегодняшней даты: прошедшие слоты не предлагаются.
func filterPastSlots(slots []types.TimeString, minAllowed types.TimeString) []types.TimeString {
	available := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsBefore(minAllowed) {
			available = append(available, slot)
		}
	}
	return available
}

// filterFreeSlots оставляет только слоты, не пересекающиеся ни с одной
// записью, занимающей время. Границы интервалов могут соприкасаться:
// запись, заканчивающаяся в 10:00, не блокирует слот с началом в 10:00.
func filterFreeSlots(slots []types.TimeString, stepMinutes int, appointments []*domain.Appointment) []types.TimeString {
	available := make([]types.TimeString, 0, len(slots))

	for _, slot := range slots {
		slotStart, err := slot.Minutes()
		if err != nil {
			continue
		}
		slotEnd := slotStart + stepMinutes

		if isSlotFree(slotStart, slotEnd, appointments) {
			available = append(available, slot)
		}
	}

	return available
}

func isSlotFree(slotStart, slotEnd int, appointments []*domain.Appointment) bool {
	for _, appt := range appointments {
		if !appt.BlocksSlot() {
			continue
		}

		otherStart, otherEnd, err := appt.Interval()
		if err != nil {
			// Некорректное время в существующей строке не должно блокировать день
			continue
		}

		if slotStart < otherEnd && slotEnd > otherStart {
			return false
		}
	}

	return true
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
