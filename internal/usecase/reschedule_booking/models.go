package reschedule_booking

import (
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID  int64            // ID переносимой записи
	ProfessionalID int64            // Профессионал, выполняющий перенос (из заголовка авторизации)
	ClientPhone    *string          // Телефон клиента, если переносит клиент
	Date           types.Date       // Новая дата
	StartTime      types.TimeString // Новое время начала
}

// byClient перенос выполняет клиент, а не профессионал
func (r *Request) byClient() bool {
	return r.ProfessionalID == 0
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64
	ProfessionalID  int64
	ServiceID       int64
	Date            types.Date
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	PreviousDate      types.Date
	PreviousStartTime types.TimeString
}
