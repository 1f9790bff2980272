package get_appointments

import (
	"strconv"
	"time"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	"github.com/m04kA/SMB-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// date задает конкретный день; from/to задают период; date приоритетнее.
func ToServiceRequest(businessID int64, dateStr, fromStr, toStr, statusStr, includeCancelledStr string) (*models.GetAppointmentsRequest, error) {
	req := &models.GetAppointmentsRequest{
		BusinessID: businessID,
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
