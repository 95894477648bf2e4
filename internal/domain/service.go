package domain

// Service услуга профессионала, на которую можно записаться
type Service struct {
	ID              int64
	ProfessionalID  int64
	Name            string
	DurationMinutes int
	Price           *float64
	IsActive        bool
}
