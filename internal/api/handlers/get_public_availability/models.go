package get_public_availability

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	getAvailability "github.com/m04kA/SMB-AppointmentService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string   `json:"date"`
	TypeID          int64    `json:"typeId"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest создает запрос use case из slug и query параметров
func ToUseCaseRequest(slug string, typeID int64, dateStr string) (*getAvailability.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		Slug:   slug,
		TypeID: typeID,
		Date:   date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		TypeID:          resp.TypeID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
