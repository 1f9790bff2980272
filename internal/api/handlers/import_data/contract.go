package import_data

import (
	"context"

	importData "github.com/m04kA/SMB-AppointmentService/internal/usecase/import_data"
)

type ImportDataUseCase interface {
	Execute(ctx context.Context, req *importData.Request) (*importData.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
