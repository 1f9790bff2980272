package create_appointment

import (
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMB-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	TypeID          *int64  `json:"typeId,omitempty"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"` // "2025-10-15"
	Time            string  `json:"time"` // "10:00"
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// NotificationSummaryResponse итог отправки уведомлений
type NotificationSummaryResponse struct {
	Provider       string `json:"provider"`
	ClientNotified bool   `json:"clientNotified"`
	OwnerNotified  bool   `json:"ownerNotified"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	TypeID          *int64  `json:"typeId,omitempty"`
	Title           string  `json:"title"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Status          string  `json:"status"`
	Source          string  `json:"source"`

	Notifications NotificationSummaryResponse `json:"notifications"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(businessID int64, source domain.AppointmentSource) (*createAppointment.Request, error) {
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
		Source:          source,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		TypeID:          resp.TypeID,
		Title:           resp.Title,
		ClientName:      resp.ClientName,
		ClientEmail:     resp.ClientEmail,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Location:        resp.Location,
		Notes:           resp.Notes,
		Status:          resp.Status,
		Source:          resp.Source,
		Notifications: NotificationSummaryResponse{
			Provider:       resp.Notifications.Provider,
			ClientNotified: resp.Notifications.ClientNotified,
			OwnerNotified:  resp.Notifications.OwnerNotified,
		},
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
