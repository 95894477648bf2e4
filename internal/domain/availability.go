package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WeeklyWindow повторяющееся рабочее окно в один день недели.
// У профессионала может быть несколько окон в день, например утренняя и дневная смены.
type WeeklyWindow struct {
	ID                  int64
	ProfessionalID      int64
	DayOfWeek           time.Weekday // 0 = воскресенье ... 6 = суббота
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotIntervalMinutes int
}

// Exception разовое изменение недельного расписания на конкретную дату.
// Блокирующее исключение без StartTime/EndTime закрывает всю дату.
type Exception struct {
	ID             int64
	ProfessionalID int64
	Date           types.Date
	StartTime      *types.TimeString
	EndTime        *types.TimeString
	IsBlocked      bool
	Reason         *string
	CreatedAt      time.Time
}

// IsFullDay исключение без границ времени
func (e *Exception) IsFullDay() bool {
	return e.StartTime == nil && e.EndTime == nil
}

// IsPartial заданы обе границы времени
func (e *Exception) IsPartial() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// BookingPolicy настройки записи профессионала.
// При отсутствии строки используются значения по умолчанию из конфигурации.
type BookingPolicy struct {
	ProfessionalID          int64
	TimeZone                string
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = без ограничения
}

// HasAdvanceBookingLimit задано ли ограничение на запись заранее
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// Location часовой пояс политики, по умолчанию UTC
func (p *BookingPolicy) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
