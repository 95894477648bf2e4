package common

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AppointmentRepository источник записей для снимка дня
type AppointmentRepository interface {
	GetByProfessionalWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// AvailabilityRepository источник расписания и политики профессионала
type AvailabilityRepository interface {
	GetWeeklyWindows(ctx context.Context, professionalID int64) ([]domain.WeeklyWindow, error)
	GetExceptionsByDate(ctx context.Context, professionalID int64, date types.Date) ([]domain.Exception, error)
	GetPolicy(ctx context.Context, professionalID int64) (*domain.BookingPolicy, error)
}
