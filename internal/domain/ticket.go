package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusPendingCustomer TicketStatus = "pending_customer"
	TicketStatusEscalated       TicketStatus = "escalated"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

// IsTerminal reports whether the status ends the lifecycle; terminal
// tickets are skipped by the escalation scan.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory enumerates work categories agents can be skilled in.
type TicketCategory string

const (
	CategoryBilling        TicketCategory = "billing"
	CategoryTechnical      TicketCategory = "technical"
	CategoryAccount        TicketCategory = "account"
	CategoryFeatureRequest TicketCategory = "feature_request"
	CategoryBugReport      TicketCategory = "bug_report"
	CategoryGeneral        TicketCategory = "general"
)

var slaWindows = map[TicketPriority]time.Duration{
	TicketPriorityUrgent: 1 * time.Hour,
	TicketPriorityHigh:   4 * time.Hour,
	TicketPriorityMedium: 24 * time.Hour,
	TicketPriorityLow:    72 * time.Hour,
}

// SLAWindow returns the first-response window implied by a priority.
func SLAWindow(priority TicketPriority) time.Duration {
	if d, ok := slaWindows[priority]; ok {
		return d
	}
	return slaWindows[TicketPriorityMedium]
}

// ValidStatus reports whether the value is a known status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPendingCustomer,
		TicketStatusEscalated, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidCategory reports whether the value is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryAccount,
		CategoryFeatureRequest, CategoryBugReport, CategoryGeneral:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                string
	Subject           string
	Description       string
	Category          TicketCategory
	Priority          TicketPriority
	Status            TicketStatus
	CustomerID        string
	CustomerEmail     string
	CustomerName      string
	AssignedAgentID   *string
	SuggestedCategory *TicketCategory
	SuggestedPriority *TicketPriority
	AISummary         *string
	SuggestedResponse *string
	EscalationReason  *string
	EscalationLevel   int
	SLADeadline       time.Time
	FirstResponseAt   *time.Time
	ResolvedAt        *time.Time
	Tags              []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
