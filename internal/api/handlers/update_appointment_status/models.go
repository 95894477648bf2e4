package update_appointment_status

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed, cancelled, completed, no_show
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(professionalID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		ProfessionalID: professionalID,
		Status:         r.Status,
	}
}
