package bookingrules

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type slotOptions struct {
	minNoticeMinutes int
}

// SlotOption настройка расчёта слотов
type SlotOption func(*slotOptions)

// WithMinNotice отбрасывает слоты, начинающиеся раньше now + minutes
func WithMinNotice(minutes int) SlotOption {
	return func(o *slotOptions) {
		if minutes > 0 {
			o.minNoticeMinutes = minutes
		}
	}
}

// AvailableSlots доступные слоты профессионала на дату по возрастанию времени.
//
// now текущие дата и время в часовом поясе профессионала. Для прошедших дат
// слотов нет, как и для уже начавшихся или попадающих в период уведомления.
// Входные данные разбираются заранее, поэтому последовательность не возвращает ошибок
// и при повторном обходе даёт тот же результат.
func AvailableSlots(
	professionalID int64,
	date types.Date,
	durationMinutes int,
	snap Snapshot,
	now time.Time,
	opts ...SlotOption,
) (iter.Seq[domain.CandidateSlot], error) {
	o := slotOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}

	empty := func(func(domain.CandidateSlot) bool) {}

	if date.Before(types.DateOf(now)) {
		return empty, nil
	}

	snap = snap.scoped(professionalID)
	if IsDateClosed(snap.Exceptions, date) {
		return empty, nil
	}

	windows := WindowsForDay(snap.Windows, date.Weekday())
	open, err := parseWindows(windows)
	if err != nil {
		return nil, err
	}

	starts, err := candidateStarts(windows, open, durationMinutes)
	if err != nil {
		return nil, err
	}

	blocked, err := blockedRanges(snap.Exceptions, date)
	if err != nil {
		return nil, err
	}
	busy, err := busyIntervals(snap.Appointments, date, nil)
	if err != nil {
		return nil, err
	}

	deadline := civilNow(now).Add(time.Duration(o.minNoticeMinutes) * time.Minute)

	return func(yield func(domain.CandidateSlot) bool) {
		for _, start := range starts {
			slot := interval{start: start, end: start + durationMinutes}

			if civilInstant(date, start).Before(deadline) {
				continue
			}
			if !withinAny(slot, open) || overlapsAny(slot, blocked) || overlapsAny(slot, busy) {
				continue
			}

			// start < MinutesPerDay: окна ограничены 23:59
			ts, _ := types.NewTimeStringFromMinutes(start)
			if !yield(domain.CandidateSlot{Date: date, StartTime: ts, DurationMinutes: durationMinutes}) {
				return
			}
		}
	}, nil
}

// CalculateAvailableSlots собирает AvailableSlots в срез, не nil
func CalculateAvailableSlots(
	professionalID int64,
	date types.Date,
	durationMinutes int,
	snap Snapshot,
	now time.Time,
	opts ...SlotOption,
) ([]domain.CandidateSlot, error) {
	seq, err := AvailableSlots(professionalID, date, durationMinutes, snap, now, opts...)
	if err != nil {
		return nil, err
	}
	slots := slices.Collect(seq)
	if slots == nil {
		slots = []domain.CandidateSlot{}
	}
	return slots, nil
}

// candidateStarts обходит окна с их шагом и возвращает отсортированные
// уникальные минуты начала слотов, помещающихся в окно
func candidateStarts(windows []domain.WeeklyWindow, open []interval, durationMinutes int) ([]int, error) {
	var starts []int
	for i, w := range windows {
		if w.SlotIntervalMinutes <= 0 {
			return nil, fmt.Errorf("%w: window id=%d has slot interval %d", ErrInvalidWindow, w.ID, w.SlotIntervalMinutes)
		}
		for t := open[i].start; t+durationMinutes <= open[i].end; t += w.SlotIntervalMinutes {
			starts = append(starts, t)
		}
	}
	slices.Sort(starts)
	return slices.Compact(starts), nil
}
