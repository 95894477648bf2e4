package get_available_slots

import (
	"errors"
	"strconv"

	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var (
	errMissingDate     = errors.New("date is required")
	errInvalidDate     = errors.New("invalid date")
	errInvalidService  = errors.New("invalid serviceId")
	errInvalidDuration = errors.New("invalid durationMinutes")
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProfessionalID  int64          `json:"professionalId"`
	Date            string         `json:"date"`
	ServiceID       *int64         `json:"serviceId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	TimeZone        string         `json:"timeZone"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(professionalID int64, dateStr, serviceIDStr, durationStr string) (*getAvailableSlots.Request, error) {
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &getAvailableSlots.Request{
		ProfessionalID: professionalID,
		Date:           date,
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, errInvalidService
		}
		req.ServiceID = &serviceID
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, errInvalidDuration
		}
		req.DurationMinutes = &duration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		ProfessionalID:  resp.ProfessionalID,
		Date:            resp.Date.String(),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		TimeZone:        resp.TimeZone,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return out
}
