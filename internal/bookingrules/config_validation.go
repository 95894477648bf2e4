package bookingrules

import (
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ValidateWeeklyWindows проверяет недельное расписание перед сохранением.
// Пересекающиеся окна одного дня отклоняются, смежные допустимы.
func ValidateWeeklyWindows(windows []domain.WeeklyWindow) error {
	byDay := make(map[time.Weekday][]interval)

	for i, w := range windows {
		if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
			return fmt.Errorf("%w: window #%d day_of_week %d is not in 0..6", ErrInvalidWindow, i, w.DayOfWeek)
		}
		iv, err := parseBounds(w.StartTime, w.EndTime)
		if err != nil {
			return fmt.Errorf("window #%d: %w", i, err)
		}
		if iv.start >= iv.end {
			return fmt.Errorf("%w: window #%d start %s is not before end %s", ErrInvalidWindow, i, w.StartTime, w.EndTime)
		}
		if w.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || w.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
			return fmt.Errorf("%w: window #%d slot interval must be between %d and %d minutes",
				ErrInvalidWindow, i, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], iv)
	}

	for day, ivs := range byDay {
		if err := checkNoOverlap(ivs); err != nil {
			return fmt.Errorf("%w: %s %v", ErrOverlappingWindows, day, err)
		}
	}

	return nil
}

// ValidateException проверяет новое исключение против уже сохранённых исключений профессионала.
// Неблокирующие исключения сохраняются, но на доступность не влияют.
func ValidateException(candidate domain.Exception, existing []domain.Exception) error {
	if err := checkDate(candidate.Date); err != nil {
		return err
	}
	if (candidate.StartTime == nil) != (candidate.EndTime == nil) {
		return fmt.Errorf("%w: start_time and end_time must be both set or both empty", ErrInvalidException)
	}
	if candidate.Reason != nil && len(*candidate.Reason) > domain.MaxExceptionReasonLength {
		return fmt.Errorf("%w: reason is longer than %d", ErrInvalidException, domain.MaxExceptionReasonLength)
	}

	var candidateRange interval
	if candidate.IsPartial() {
		iv, err := parseBounds(*candidate.StartTime, *candidate.EndTime)
		if err != nil {
			return err
		}
		if iv.start >= iv.end {
			return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidException, *candidate.StartTime, *candidate.EndTime)
		}
		candidateRange = iv
	}

	if !candidate.IsBlocked {
		return nil
	}

	for _, e := range existing {
		if e.ID == candidate.ID && candidate.ID != 0 {
			continue
		}
		if !e.IsBlocked || !e.Date.Equal(candidate.Date) {
			continue
		}
		if candidate.IsFullDay() || e.IsFullDay() {
			return fmt.Errorf("%w: %s already has a blocking exception id=%d", ErrOverlappingExceptions, candidate.Date, e.ID)
		}
		if !e.IsPartial() {
			continue
		}
		iv, err := parseBounds(*e.StartTime, *e.EndTime)
		if err != nil {
			return fmt.Errorf("exception id=%d: %w", e.ID, err)
		}
		if candidateRange.overlaps(iv) {
			return fmt.Errorf("%w: %s %s-%s overlaps exception id=%d",
				ErrOverlappingExceptions, candidate.Date, *candidate.StartTime, *candidate.EndTime, e.ID)
		}
	}

	return nil
}

func checkNoOverlap(ivs []interval) error {
	sorted := slices.Clone(ivs)
	slices.SortFunc(sorted, func(a, b interval) int { return a.start - b.start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].start < sorted[i-1].end {
			return fmt.Errorf("[%d,%d) overlaps [%d,%d)", sorted[i-1].start, sorted[i-1].end, sorted[i].start, sorted[i].end)
		}
	}
	return nil
}
