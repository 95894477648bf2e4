package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// WindowRequest одно окно недельного расписания
type WindowRequest struct {
	DayOfWeek           int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime           types.TimeString `json:"startTime"`
	EndTime             types.TimeString `json:"endTime"`
	SlotIntervalMinutes int              `json:"slotIntervalMinutes"`
}

// ReplaceWeeklyScheduleRequest полная замена недельного расписания
type ReplaceWeeklyScheduleRequest struct {
	ProfessionalID int64           `json:"-"`
	Windows        []WindowRequest `json:"windows"`
}

// ToDomainWindows конвертирует request в domain модели
func (r *ReplaceWeeklyScheduleRequest) ToDomainWindows() []domain.WeeklyWindow {
	windows := make([]domain.WeeklyWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		windows = append(windows, domain.WeeklyWindow{
			ProfessionalID:      r.ProfessionalID,
			DayOfWeek:           time.Weekday(w.DayOfWeek),
			StartTime:           w.StartTime,
			EndTime:             w.EndTime,
			SlotIntervalMinutes: w.SlotIntervalMinutes,
		})
	}
	return windows
}

// CreateExceptionRequest запрос на создание исключения.
// Без startTime/endTime блокируется весь день.
type CreateExceptionRequest struct {
	ProfessionalID int64             `json:"-"`
	Date           types.Date        `json:"date"`
	StartTime      *types.TimeString `json:"startTime,omitempty"`
	EndTime        *types.TimeString `json:"endTime,omitempty"`
	IsBlocked      *bool             `json:"isBlocked,omitempty"` // По умолчанию true
	Reason         *string           `json:"reason,omitempty"`
}

// ToDomainException конвертирует request в domain модель
func (r *CreateExceptionRequest) ToDomainException() domain.Exception {
	blocked := true
	if r.IsBlocked != nil {
		blocked = *r.IsBlocked
	}
	return domain.Exception{
		ProfessionalID: r.ProfessionalID,
		Date:           r.Date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		IsBlocked:      blocked,
		Reason:         r.Reason,
	}
}

// GetExceptionsRequest запрос на получение исключений за период
type GetExceptionsRequest struct {
	ProfessionalID int64
	From           *types.Date
	To             *types.Date
}

// UpdateBookingPolicyRequest запрос на изменение политики бронирования
type UpdateBookingPolicyRequest struct {
	ProfessionalID          int64  `json:"-"`
	TimeZone                string `json:"timeZone"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"` // 0 = без ограничения
}

// Response модели

// WindowResponse окно недельного расписания
type WindowResponse struct {
	ID                  int64  `json:"id"`
	DayOfWeek           int    `json:"dayOfWeek"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
}

// WeeklyScheduleResponse недельное расписание профессионала
type WeeklyScheduleResponse struct {
	ProfessionalID int64            `json:"professionalId"`
	Windows        []WindowResponse `json:"windows"`
}

// ExceptionResponse исключение из расписания
type ExceptionResponse struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professionalId"`
	Date           string    `json:"date"`
	StartTime      *string   `json:"startTime,omitempty"`
	EndTime        *string   `json:"endTime,omitempty"`
	IsBlocked      bool      `json:"isBlocked"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ExceptionListResponse список исключений
type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// BookingPolicyResponse действующая политика бронирования
type BookingPolicyResponse struct {
	ProfessionalID          int64  `json:"professionalId"`
	TimeZone                string `json:"timeZone"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
}

// Методы конвертации

// FromDomainWindows конвертирует окна в DTO
func FromDomainWindows(professionalID int64, windows []domain.WeeklyWindow) *WeeklyScheduleResponse {
	resp := &WeeklyScheduleResponse{
		ProfessionalID: professionalID,
		Windows:        make([]WindowResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			ID:                  w.ID,
			DayOfWeek:           int(w.DayOfWeek),
			StartTime:           w.StartTime.String(),
			EndTime:             w.EndTime.String(),
			SlotIntervalMinutes: w.SlotIntervalMinutes,
		})
	}
	return resp
}

// FromDomainException конвертирует исключение в DTO
func FromDomainException(e *domain.Exception) *ExceptionResponse {
	if e == nil {
		return nil
	}

	resp := &ExceptionResponse{
		ID:             e.ID,
		ProfessionalID: e.ProfessionalID,
		Date:           e.Date.String(),
		IsBlocked:      e.IsBlocked,
		Reason:         e.Reason,
		CreatedAt:      e.CreatedAt,
	}
	if e.StartTime != nil {
		start := e.StartTime.String()
		resp.StartTime = &start
	}
	if e.EndTime != nil {
		end := e.EndTime.String()
		resp.EndTime = &end
	}

	return resp
}

// FromDomainExceptionList конвертирует список исключений в DTO
func FromDomainExceptionList(exceptions []domain.Exception) *ExceptionListResponse {
	resp := &ExceptionListResponse{
		Exceptions: make([]ExceptionResponse, 0, len(exceptions)),
	}
	for i := range exceptions {
		resp.Exceptions = append(resp.Exceptions, *FromDomainException(&exceptions[i]))
	}
	return resp
}

// FromDomainPolicy конвертирует политику в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *BookingPolicyResponse {
	return &BookingPolicyResponse{
		ProfessionalID:          p.ProfessionalID,
		TimeZone:                p.TimeZone,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		AdvanceBookingDays:      p.AdvanceBookingDays,
	}
}
