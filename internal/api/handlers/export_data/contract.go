package export_data

import (
	"context"

	"github.com/m04kA/SMB-AppointmentService/internal/domain"
	exportData "github.com/m04kA/SMB-AppointmentService/internal/usecase/export_data"
)

type ExportDataUseCase interface {
	Execute(ctx context.Context, req *exportData.Request) (*domain.ExportBundle, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
