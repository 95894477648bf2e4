package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is longer than %d", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateService проверяет, что услугу можно забронировать у этого профессионала
func validateService(service *domain.Service, professionalID int64) error {
	if service.ProfessionalID != professionalID {
		return ErrServiceNotFound
	}
	if !service.IsActive {
		return ErrServiceInactive
	}
	if service.DurationMinutes < domain.MinDurationMinutes || service.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: service id=%d has invalid duration %d", ErrInternal, service.ID, service.DurationMinutes)
	}
	return nil
}

// validateBookingNotice проверяет, что запись не нарушает minBookingNoticeMinutes.
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
