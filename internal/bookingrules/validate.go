package bookingrules

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ValidateNotPastDate отклоняет кандидата, чьи дата и время строго раньше now
func ValidateNotPastDate(candidate domain.CandidateSlot, now time.Time) error {
	if err := checkDate(candidate.Date); err != nil {
		return err
	}
	start, err := ToMinutesSinceMidnight(candidate.StartTime)
	if err != nil {
		return err
	}
	if civilInstant(candidate.Date, start).Before(civilNow(now)) {
		return newBookingError(KindPastDate, "%s %s is in the past", candidate.Date, candidate.StartTime)
	}
	return nil
}

// ValidateBooking проверяет одну предлагаемую запись по снимку данных.
//
// Порядок проверок: прошедшая дата, рабочие часы (закрытый день считается нерабочим),
// частичная блокировка, конфликт с занимающими время записями.
// excludeAppointmentID переносимая запись, если есть.
// Отказы по правилам возвращаются как *BookingError, некорректный ввод как ErrFormat
// или ErrInvalidDuration. Ничего не сохраняет.
func ValidateBooking(
	professionalID int64,
	candidate domain.CandidateSlot,
	excludeAppointmentID *int64,
	snap Snapshot,
	now time.Time,
) error {
	if err := checkDate(candidate.Date); err != nil {
		return err
	}
	slot, err := parseInterval(candidate.StartTime, candidate.DurationMinutes)
	if err != nil {
		return err
	}

	if err := ValidateNotPastDate(candidate, now); err != nil {
		return err
	}

	snap = snap.scoped(professionalID)

	open, err := parseWindows(WindowsForDay(snap.Windows, candidate.Date.Weekday()))
	if err != nil {
		return err
	}
	if IsDateClosed(snap.Exceptions, candidate.Date) {
		return newBookingError(KindOutsideBusinessHours, "%s is closed", candidate.Date)
	}
	if !withinAny(slot, open) {
		return newBookingError(KindOutsideBusinessHours, "%s %s+%dm is outside business hours",
			candidate.Date, candidate.StartTime, candidate.DurationMinutes)
	}

	blocked, err := blockedRanges(snap.Exceptions, candidate.Date)
	if err != nil {
		return err
	}
	if overlapsAny(slot, blocked) {
		return newBookingError(KindSlotUnavailable, "%s %s+%dm is blocked",
			candidate.Date, candidate.StartTime, candidate.DurationMinutes)
	}

	conflict, err := HasConflict(candidate, snap.Appointments, excludeAppointmentID)
	if err != nil {
		return err
	}
	if conflict {
		return newBookingError(KindTimeConflict, "%s %s+%dm overlaps an existing appointment",
			candidate.Date, candidate.StartTime, candidate.DurationMinutes)
	}

	return nil
}
