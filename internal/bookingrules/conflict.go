package bookingrules

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// HasConflict проверяет пересечение кандидата с занимающими время записями той же даты.
// Запись excludeAppointmentID (перенос) не конфликтует сама с собой.
func HasConflict(candidate domain.CandidateSlot, existing []*domain.Appointment, excludeAppointmentID *int64) (bool, error) {
	if err := checkDate(candidate.Date); err != nil {
		return false, err
	}
	slot, err := parseInterval(candidate.StartTime, candidate.DurationMinutes)
	if err != nil {
		return false, err
	}
	busy, err := busyIntervals(existing, candidate.Date, excludeAppointmentID)
	if err != nil {
		return false, err
	}
	return overlapsAny(slot, busy), nil
}

// busyIntervals интервалы занимающих время записей на дату
func busyIntervals(appointments []*domain.Appointment, date types.Date, excludeAppointmentID *int64) ([]interval, error) {
	result := make([]interval, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsOccupying() || !a.Date.Equal(date) {
			continue
		}
		if excludeAppointmentID != nil && a.ID == *excludeAppointmentID {
			continue
		}
		iv, err := parseInterval(a.StartTime, a.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("appointment id=%d: %w", a.ID, err)
		}
		result = append(result, iv)
	}
	return result, nil
}
