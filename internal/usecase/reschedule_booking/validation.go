package reschedule_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID < 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	// Клиент подтверждает право на запись своим телефоном
	if req.byClient() && (req.ClientPhone == nil || normalizePhone(*req.ClientPhone) == "") {
		return fmt.Errorf("%w: clientPhone is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateAppointment проверяет владельца и статус переносимой записи.
// Профессионал переносит только свои записи, клиент только записи со своим телефоном.
func validateAppointment(appt *domain.Appointment, req *Request) error {
	if req.byClient() {
		if appt.ClientPhone == nil || normalizePhone(*appt.ClientPhone) != normalizePhone(*req.ClientPhone) {
			return ErrAccessDenied
		}
	} else if appt.ProfessionalID != req.ProfessionalID {
		return ErrAccessDenied
	}
	if !appt.CanBeRescheduled() {
		return fmt.Errorf("%w: status is %s", ErrCannotReschedule, appt.Status)
	}
	return nil
}

// normalizePhone оставляет только цифры и ведущий +
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateBookingNotice проверяет, что новое время не нарушает minBookingNoticeMinutes.
// now уже переведено в часовой пояс профессионала.
func validateBookingNotice(date types.Date, startTime types.TimeString, now time.Time, minBookingNoticeMinutes int) error {
	if minBookingNoticeMinutes <= 0 {
		return nil
	}

	minutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	start := time.Date(date.Year, date.Month, date.Day, minutes/60, minutes%60, 0, 0, now.Location())
	if start.Before(now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}
