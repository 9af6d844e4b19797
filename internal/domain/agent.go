package domain

import "time"

// SupportAgent models a work handler in the agent directory.
type SupportAgent struct {
	ID                  string
	Name                string
	Email               string
	Skills              []TicketCategory
	MaxTickets          int
	CurrentTicketCount  int
	IsAvailable         bool
	IsOnline            bool
	AverageResponseTime float64
	SatisfactionScore   float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CanHandle reports whether the agent is skilled in the category.
func (a *SupportAgent) CanHandle(category TicketCategory) bool {
	for _, skill := range a.Skills {
		if skill == category {
			return true
		}
	}
	return false
}

// LoadRatio returns currentTicketCount/maxTickets, treating a zero
// capacity as fully loaded.
func (a *SupportAgent) LoadRatio() float64 {
	if a.MaxTickets <= 0 {
		return 1
	}
	return float64(a.CurrentTicketCount) / float64(a.MaxTickets)
}

// HasCapacity reports whether the agent is under its ticket cap.
func (a *SupportAgent) HasCapacity() bool {
	return a.CurrentTicketCount < a.MaxTickets
}
