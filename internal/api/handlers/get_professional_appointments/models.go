package get_professional_appointments

import (
	"strconv"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, from/to задают период; date имеет приоритет.
func ToServiceRequest(professionalID int64, dateStr, fromStr, toStr, statusStr, includeInactiveStr string) (*models.GetProfessionalAppointmentsRequest, error) {
	req := &models.GetProfessionalAppointmentsRequest{
		ProfessionalID: professionalID,
	}

	if dateStr != "" {
		date, err := types.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if fromStr != "" {
			from, err := types.ParseDate(fromStr)
			if err != nil {
				return nil, err
			}
			req.StartDate = &from
		}
		if toStr != "" {
			to, err := types.ParseDate(toStr)
			if err != nil {
				return nil, err
			}
			req.EndDate = &to
		}
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
