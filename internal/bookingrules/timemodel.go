package bookingrules

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// interval полуоткрытый интервал [start, end) в минутах от полуночи
type interval struct {
	start int
	end   int
}

func (i interval) overlaps(other interval) bool {
	return IntervalsOverlap(i.start, i.end-i.start, other.start, other.end-other.start)
}

// ToMinutesSinceMidnight переводит строгое HH:MM (24 часа) в минуты
func ToMinutesSinceMidnight(t types.TimeString) (int, error) {
	m, err := t.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return m, nil
}

// IntervalsOverlap пересекаются ли [startA, startA+durationA) и [startB, startB+durationB).
// Соприкасающиеся интервалы не пересекаются, интервал нулевой длины не пересекается ни с чем.
func IntervalsOverlap(startA, durationA, startB, durationB int) bool {
	if durationA <= 0 || durationB <= 0 {
		return false
	}
	return startA < startB+durationB && startB < startA+durationA
}

func parseInterval(start types.TimeString, durationMinutes int) (interval, error) {
	if durationMinutes <= 0 {
		return interval{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}
	s, err := ToMinutesSinceMidnight(start)
	if err != nil {
		return interval{}, err
	}
	return interval{start: s, end: s + durationMinutes}, nil
}

func parseBounds(start, end types.TimeString) (interval, error) {
	s, err := ToMinutesSinceMidnight(start)
	if err != nil {
		return interval{}, err
	}
	e, err := ToMinutesSinceMidnight(end)
	if err != nil {
		return interval{}, err
	}
	return interval{start: s, end: e}, nil
}

func checkDate(d types.Date) error {
	if d.IsZero() || d.Month < time.January || d.Month > time.December || d.Day < 1 || !types.NewDate(d.Year, d.Month, d.Day).Equal(d) {
		return fmt.Errorf("%w: invalid date %s", ErrFormat, d)
	}
	return nil
}

// civilInstant дата и минуты от полуночи как момент без часового пояса
func civilInstant(d types.Date, minutes int) time.Time {
	return d.Time().Add(time.Duration(minutes) * time.Minute)
}

// civilNow отбрасывает часовой пояс now, сохраняя показания часов
func civilNow(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}
