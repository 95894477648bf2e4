package get_available_slots

import (
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на получение доступных слотов.
// Длительность берется из услуги (ServiceID) либо задается явно (DurationMinutes).
type Request struct {
	ProfessionalID  int64      // ID профессионала
	Date            types.Date // Дата в часовом поясе профессионала
	ServiceID       *int64     // ID услуги (опционально)
	DurationMinutes *int       // Явная длительность (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ProfessionalID  int64
	Date            types.Date
	ServiceID       *int64
	DurationMinutes int
	TimeZone        string
	Slots           []Slot // Слоты в порядке возрастания времени
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала (например, "10:00")
	EndTime         types.TimeString // Время окончания
	DurationMinutes int
}
