package get_settings

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	GetSettings(ctx context.Context, businessID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
