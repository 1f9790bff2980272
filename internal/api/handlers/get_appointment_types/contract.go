package get_appointment_types

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	ListTypes(ctx context.Context, businessID int64, includeInactive bool) (*models.TypeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
