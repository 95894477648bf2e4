package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// allowedTransitions pending -> {confirmed, cancelled}; confirmed -> {completed, cancelled, no_show}
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// Appointment запись в календаре профессионала.
// DurationMinutes копируется из услуги при записи и больше не пересчитывается.
type Appointment struct {
	ID              int64
	ProfessionalID  int64
	ServiceID       int64
	Date            types.Date
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	ClientName  string
	ClientPhone *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsOccupying returns true if the status counts against availability
func (s AppointmentStatus) IsOccupying() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// CanTransitionTo reports whether the status machine allows s -> next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOccupying returns true if the appointment occupies the calendar
func (a *Appointment) IsOccupying() bool {
	return a.Status.IsOccupying()
}

// CanBeRescheduled returns true if date/time may still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// AppointmentsFilter фильтр для выборки записей профессионала
type AppointmentsFilter struct {
	ProfessionalID  int64              // Обязательный параметр
	StartDate       *types.Date        // Начало периода (опционально)
	EndDate         *types.Date        // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли cancelled и no_show
}

// IsSingleDate returns true if the filter targets exactly one date
func (f AppointmentsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
