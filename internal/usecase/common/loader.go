package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// PolicyDefaults значения политики для профессионалов без собственной строки в БД
type PolicyDefaults struct {
	TimeZone                string
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int
}

// DefaultPolicyDefaults значения по умолчанию из domain
func DefaultPolicyDefaults() PolicyDefaults {
	return PolicyDefaults{
		TimeZone:                domain.DefaultTimeZone,
		MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
	}
}

// Loader собирает данные, нужные движку правил, из репозиториев.
// Внутри транзакции записи дня читаются с блокировкой (см. appointment.Repository).
type Loader struct {
	appointments AppointmentRepository
	availability AvailabilityRepository
	defaults     PolicyDefaults
}

// NewLoader создает загрузчик снимков
func NewLoader(appointments AppointmentRepository, availability AvailabilityRepository, defaults PolicyDefaults) *Loader {
	return &Loader{
		appointments: appointments,
		availability: availability,
		defaults:     defaults,
	}
}

// Policy возвращает политику профессионала либо значения по умолчанию
func (l *Loader) Policy(ctx context.Context, professionalID int64) (*domain.BookingPolicy, error) {
	policy, err := l.availability.GetPolicy(ctx, professionalID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrPolicyNotFound) {
			return &domain.BookingPolicy{
				ProfessionalID:          professionalID,
				TimeZone:                l.defaults.TimeZone,
				MinBookingNoticeMinutes: l.defaults.MinBookingNoticeMinutes,
				AdvanceBookingDays:      l.defaults.AdvanceBookingDays,
			}, nil
		}
		return nil, fmt.Errorf("%w: professional=%d: %w", ErrLoadPolicy, professionalID, err)
	}

	if policy.TimeZone == "" {
		policy.TimeZone = l.defaults.TimeZone
	}
	return policy, nil
}

// Snapshot читает окна, исключения и занимающие время записи профессионала на дату
func (l *Loader) Snapshot(ctx context.Context, professionalID int64, date types.Date) (bookingrules.Snapshot, error) {
	windows, err := l.availability.GetWeeklyWindows(ctx, professionalID)
	if err != nil {
		return bookingrules.Snapshot{}, fmt.Errorf("%w: weekly windows: %w", ErrLoadSnapshot, err)
	}

	exceptions, err := l.availability.GetExceptionsByDate(ctx, professionalID, date)
	if err != nil {
		return bookingrules.Snapshot{}, fmt.Errorf("%w: exceptions: %w", ErrLoadSnapshot, err)
	}

	appointments, err := l.appointments.GetByProfessionalWithFilter(ctx, domain.AppointmentsFilter{
		ProfessionalID:  professionalID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false,
	})
	if err != nil {
		return bookingrules.Snapshot{}, fmt.Errorf("%w: appointments: %w", ErrLoadSnapshot, err)
	}

	return bookingrules.Snapshot{
		Windows:      windows,
		Exceptions:   exceptions,
		Appointments: appointments,
	}, nil
}

// CivilNow переводит now в часовой пояс профессионала
func CivilNow(now time.Time, policy *domain.BookingPolicy) time.Time {
	return now.In(policy.Location())
}

// ExceedsAdvanceLimit проверяет ограничение advance_booking_days относительно сегодняшней даты профессионала
func ExceedsAdvanceLimit(date types.Date, civilNow time.Time, policy *domain.BookingPolicy) bool {
	if !policy.HasAdvanceBookingLimit() {
		return false
	}
	return date.After(types.DateOf(civilNow).AddDays(policy.AdvanceBookingDays))
}
