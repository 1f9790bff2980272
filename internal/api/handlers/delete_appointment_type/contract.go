package delete_appointment_type

import "context"

type CatalogService interface {
	DeactivateType(ctx context.Context, businessID, typeID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
