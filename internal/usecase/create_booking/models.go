package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ProfessionalID int64            // ID профессионала
	ServiceID      int64            // ID услуги, длительность берется из нее
	Date           types.Date       // Дата в часовом поясе профессионала
	StartTime      types.TimeString // Время начала (например, "10:00")
	ClientName     string           // Имя клиента
	ClientPhone    *string          // Телефон (опционально)
	Notes          *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ProfessionalID  int64
	ServiceID       int64
	Date            types.Date
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	// Денормализованные данные
	ServiceName string
	ClientName  string
	ClientPhone *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
