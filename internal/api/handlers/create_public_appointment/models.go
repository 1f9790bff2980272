package create_public_appointment

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// CreatePublicAppointmentRequest HTTP request model
type CreatePublicAppointmentRequest struct {
	TypeID          *int64  `json:"typeId,omitempty"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"` // "2025-10-15"
	Time            string  `json:"time"` // "10:00"
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// PublicAppointmentResponse HTTP response model.
// Публичному клиенту не отдаём служебные поля (source, итог
// уведомлений владельца) - только подтверждение его записи.
type PublicAppointmentResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          string  `json:"status"`
	ClientNotified  bool    `json:"clientNotified"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreatePublicAppointmentRequest) ToUseCaseRequest(businessID int64) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		BusinessID:      businessID,
		TypeID:          r.TypeID,
		ClientName:      r.ClientName,
		ClientEmail:     r.ClientEmail,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Notes:           r.Notes,
		Source:          domain.SourcePublic,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *PublicAppointmentResponse {
	return &PublicAppointmentResponse{
		ID:              resp.ID,
		Title:           resp.Title,
		ClientName:      resp.ClientName,
		ClientEmail:     resp.ClientEmail,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Location:        resp.Location,
		Notes:           resp.Notes,
		Status:          resp.Status,
		ClientNotified:  resp.Notifications.ClientNotified,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
