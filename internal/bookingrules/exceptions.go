package bookingrules

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// blocksWholeDay исключение с неполными границами закрывает весь день
func blocksWholeDay(e domain.Exception) bool {
	return e.IsBlocked && !e.IsPartial()
}

// IsDateClosed закрыта ли дата блокирующим исключением без границ времени
func IsDateClosed(exceptions []domain.Exception, date types.Date) bool {
	for _, e := range exceptions {
		if e.Date.Equal(date) && blocksWholeDay(e) {
			return true
		}
	}
	return false
}

// IsSlotBlocked перекрывает ли блокирующее исключение даты хотя бы часть слота.
// Действует объединение всех исключений.
func IsSlotBlocked(exceptions []domain.Exception, date types.Date, start types.TimeString, durationMinutes int) (bool, error) {
	if err := checkDate(date); err != nil {
		return false, err
	}
	slot, err := parseInterval(start, durationMinutes)
	if err != nil {
		return false, err
	}
	if IsDateClosed(exceptions, date) {
		return true, nil
	}
	blocked, err := blockedRanges(exceptions, date)
	if err != nil {
		return false, err
	}
	return overlapsAny(slot, blocked), nil
}

// blockedRanges частично заблокированные интервалы даты
func blockedRanges(exceptions []domain.Exception, date types.Date) ([]interval, error) {
	var result []interval
	for _, e := range exceptions {
		if !e.IsBlocked || !e.IsPartial() || !e.Date.Equal(date) {
			continue
		}
		iv, err := parseBounds(*e.StartTime, *e.EndTime)
		if err != nil {
			return nil, err
		}
		result = append(result, iv)
	}
	return result, nil
}

func overlapsAny(slot interval, ranges []interval) bool {
	for _, r := range ranges {
		if slot.overlaps(r) {
			return true
		}
	}
	return false
}
