package bookingrules

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat некорректный формат времени или даты, ошибка вызывающего кода
	ErrFormat = errors.New("bookingrules: malformed time or date")

	// ErrInvalidDuration нулевая или отрицательная длительность
	ErrInvalidDuration = errors.New("bookingrules: duration must be positive")

	// ErrInvalidWindow окно нарушает start < end или имеет неверный шаг слотов
	ErrInvalidWindow = errors.New("bookingrules: invalid weekly window")

	// ErrOverlappingWindows два окна одного дня пересекаются
	ErrOverlappingWindows = errors.New("bookingrules: weekly windows overlap")

	// ErrInvalidException у исключения задана одна граница или границы перепутаны
	ErrInvalidException = errors.New("bookingrules: invalid exception")

	// ErrOverlappingExceptions исключение пересекается с другим блокирующим исключением той же даты
	ErrOverlappingExceptions = errors.New("bookingrules: exceptions overlap")
)

// ErrorKind причина отказа в записи, отдаётся клиенту
type ErrorKind string

const (
	KindPastDate             ErrorKind = "BOOKING_PAST_DATE"
	KindOutsideBusinessHours ErrorKind = "BOOKING_OUTSIDE_BUSINESS_HOURS"
	KindSlotUnavailable      ErrorKind = "BOOKING_SLOT_UNAVAILABLE"
	KindTimeConflict         ErrorKind = "BOOKING_TIME_CONFLICT"
)

// BookingError ожидаемый отказ по бизнес-правилам.
// Две BookingError совпадают по errors.Is при равных Kind.
type BookingError struct {
	Kind   ErrorKind
	Reason string
}

func (e *BookingError) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Kind == e.Kind
}

// Сигнальные ошибки для errors.Is
var (
	ErrPastDate             = &BookingError{Kind: KindPastDate}
	ErrOutsideBusinessHours = &BookingError{Kind: KindOutsideBusinessHours}
	ErrSlotUnavailable      = &BookingError{Kind: KindSlotUnavailable}
	ErrTimeConflict         = &BookingError{Kind: KindTimeConflict}
)

func newBookingError(kind ErrorKind, format string, args ...interface{}) *BookingError {
	return &BookingError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf извлекает причину отказа из err
func KindOf(err error) (ErrorKind, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
