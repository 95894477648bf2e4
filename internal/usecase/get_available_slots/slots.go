package get_available_slots

import (
	"iter"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// toSlots материализует ленивую последовательность движка в ответ
func toSlots(seq iter.Seq[domain.CandidateSlot]) ([]Slot, error) {
	slots := make([]Slot, 0)
	for c := range seq {
		end, err := c.StartTime.AddMinutes(c.DurationMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			StartTime:       c.StartTime,
			EndTime:         end,
			DurationMinutes: c.DurationMinutes,
		})
	}
	return slots, nil
}
