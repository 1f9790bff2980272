package create_appointment_type

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateType(ctx context.Context, businessID int64, req *models.CreateTypeRequest) (*models.TypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
