package domain

import "time"

// EscalationRule is a named policy that forces overdue tickets into the
// escalated status. Rules are evaluated in stored order; the first rule
// that matches a ticket wins for that scan pass.
type EscalationRule struct {
	ID                  string
	Name                string
	Priority            TicketPriority
	Category            *TicketCategory
	TriggerAfterMinutes int
	EscalateToLevel     int
	NotifyManagement    bool
	Active              bool
	CreatedAt           time.Time
}

// Matches reports whether the rule applies to a ticket's classification.
// A nil rule category is a wildcard; priority must match exactly.
func (r *EscalationRule) Matches(ticket *Ticket) bool {
	if r.Priority != ticket.Priority {
		return false
	}
	if r.Category != nil && *r.Category != ticket.Category {
		return false
	}
	return true
}
