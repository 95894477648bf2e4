package domain

// Default configuration values
const (
	DefaultTimeZone                = "UTC"
	DefaultMinBookingNoticeMinutes = 0
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinSlotIntervalMinutes   = 5
	MaxSlotIntervalMinutes   = 480 // 8 hours
	MinDurationMinutes       = 1
	MaxDurationMinutes       = 1440
	MaxAdvanceBookingDays    = 365
	MaxBookingNoticeMinutes  = 7 * 24 * 60
	MaxNotesLength           = 500
	MaxClientNameLength      = 200
	MaxExceptionReasonLength = 500
)

// OccupyingStatuses статусы, которые занимают время в календаре
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses статусы, которые не занимают время в календаре
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}
