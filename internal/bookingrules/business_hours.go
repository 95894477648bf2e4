package bookingrules

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WindowsForDay окна расписания на указанный день недели
func WindowsForDay(windows []domain.WeeklyWindow, day time.Weekday) []domain.WeeklyWindow {
	result := make([]domain.WeeklyWindow, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result
}

// IsWithinBusinessHours проверяет, что [start, start+duration) целиком лежит
// хотя бы в одном окне на день недели даты.
// Исключения здесь не учитываются.
func IsWithinBusinessHours(windows []domain.WeeklyWindow, date types.Date, start types.TimeString, durationMinutes int) (bool, error) {
	if err := checkDate(date); err != nil {
		return false, err
	}
	slot, err := parseInterval(start, durationMinutes)
	if err != nil {
		return false, err
	}
	open, err := parseWindows(WindowsForDay(windows, date.Weekday()))
	if err != nil {
		return false, err
	}
	return withinAny(slot, open), nil
}

func parseWindows(windows []domain.WeeklyWindow) ([]interval, error) {
	result := make([]interval, 0, len(windows))
	for _, w := range windows {
		iv, err := parseBounds(w.StartTime, w.EndTime)
		if err != nil {
			return nil, err
		}
		result = append(result, iv)
	}
	return result, nil
}

func withinAny(slot interval, open []interval) bool {
	for _, w := range open {
		if w.start <= slot.start && slot.end <= w.end {
			return true
		}
	}
	return false
}
