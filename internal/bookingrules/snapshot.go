package bookingrules

import "github.com/m04kA/SMC-AvailabilityService/internal/domain"

// Snapshot загруженные данные одного профессионала, только для чтения.
// Правила записи не читают ничего кроме него.
type Snapshot struct {
	Windows      []domain.WeeklyWindow
	Exceptions   []domain.Exception
	Appointments []*domain.Appointment
}

// scoped оставляет только строки профессионала professionalID
func (s Snapshot) scoped(professionalID int64) Snapshot {
	out := Snapshot{
		Windows:      make([]domain.WeeklyWindow, 0, len(s.Windows)),
		Exceptions:   make([]domain.Exception, 0, len(s.Exceptions)),
		Appointments: make([]*domain.Appointment, 0, len(s.Appointments)),
	}
	for _, w := range s.Windows {
		if w.ProfessionalID == professionalID {
			out.Windows = append(out.Windows, w)
		}
	}
	for _, e := range s.Exceptions {
		if e.ProfessionalID == professionalID {
			out.Exceptions = append(out.Exceptions, e)
		}
	}
	for _, a := range s.Appointments {
		if a != nil && a.ProfessionalID == professionalID {
			out.Appointments = append(out.Appointments, a)
		}
	}
	return out
}
