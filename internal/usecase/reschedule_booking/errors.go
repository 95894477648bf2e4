package reschedule_booking

import "errors"

// Отказы по правилам бронирования возвращаются как *bookingrules.BookingError
var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому профессионалу
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrCannotReschedule возвращается для записей в конечном статусе
	ErrCannotReschedule = errors.New("reschedule_booking: appointment cannot be rescheduled")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда новое время нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("reschedule_booking: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
