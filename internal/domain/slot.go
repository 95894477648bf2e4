package domain

import "github.com/m04kA/SMC-AvailabilityService/pkg/types"

// CandidateSlot результат расчёта слотов, не сохраняется
type CandidateSlot struct {
	Date            types.Date
	StartTime       types.TimeString
	DurationMinutes int
}
