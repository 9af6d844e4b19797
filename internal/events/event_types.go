package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject       string                `json:"subject"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	CustomerEmail string                `json:"customer_email"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID         *string `json:"agent_id,omitempty"`
	PreviousAgentID *string `json:"previous_agent_id,omitempty"`
	Automatic       bool    `json:"automatic"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Reason           string `json:"reason"`
	Level            int    `json:"level"`
	RuleName         string `json:"rule_name,omitempty"`
	NotifyManagement bool   `json:"notify_management"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string            `json:"message_id"`
	SenderType  domain.SenderType `json:"sender_type"`
	IsInternal  bool              `json:"is_internal"`
	BodyPreview string            `json:"body_preview"`
}
