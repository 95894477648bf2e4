package delete_exception

import "context"

type AvailabilityService interface {
	DeleteException(ctx context.Context, professionalID, exceptionID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
