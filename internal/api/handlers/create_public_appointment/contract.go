package create_public_appointment

import (
	"context"

	createAppointment "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
)

type CreateAppointmentUseCase interface {
	Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error)
}

// SlugResolver переводит публичный slug в ID бизнеса
type SlugResolver interface {
	ResolveSlug(ctx context.Context, slug string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
