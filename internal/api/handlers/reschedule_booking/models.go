package reschedule_booking

import (
	rescheduleBooking "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      types.Date `json:"date"`
	StartTime string     `json:"startTime"`
}

// ClientRescheduleRequest HTTP request model для переноса клиентом
type ClientRescheduleRequest struct {
	Date        types.Date `json:"date"`
	StartTime   string     `json:"startTime"`
	ClientPhone string     `json:"clientPhone"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID                int64  `json:"id"`
	ProfessionalID    int64  `json:"professionalId"`
	ServiceID         int64  `json:"serviceId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	DurationMinutes   int    `json:"durationMinutes"`
	Status            string `json:"status"`
	PreviousDate      string `json:"previousDate"`
	PreviousStartTime string `json:"previousStartTime"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID, professionalID int64) (*rescheduleBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		AppointmentID:  appointmentID,
		ProfessionalID: professionalID,
		Date:           r.Date,
		StartTime:      startTime,
	}, nil
}

// ToUseCaseRequest конвертирует HTTP запрос клиента в модель use case
func (r *ClientRescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	phone := r.ClientPhone
	return &rescheduleBooking.Request{
		AppointmentID: appointmentID,
		ClientPhone:   &phone,
		Date:          r.Date,
		StartTime:     startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:                resp.ID,
		ProfessionalID:    resp.ProfessionalID,
		ServiceID:         resp.ServiceID,
		Date:              resp.Date.String(),
		StartTime:         resp.StartTime.String(),
		DurationMinutes:   resp.DurationMinutes,
		Status:            resp.Status,
		PreviousDate:      resp.PreviousDate.String(),
		PreviousStartTime: resp.PreviousStartTime.String(),
	}
}
