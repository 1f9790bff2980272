package get_public_page

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/service/catalog/models"
)

type CatalogService interface {
	GetPublicPage(ctx context.Context, slug string) (*models.PublicPageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
