package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	CustomerEmail string                `json:"customerEmail"`
	CustomerName  string                `json:"customerName"`
	CustomerID    string                `json:"customerId"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries partial ticket fields.
type UpdateTicketRequest struct {
	Status   *domain.TicketStatus   `json:"status"`
	Priority *domain.TicketPriority `json:"priority"`
	Category *domain.TicketCategory `json:"category"`
	Tags     []string               `json:"tags"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content    string            `json:"content"`
	SenderID   string            `json:"senderId"`
	SenderType domain.SenderType `json:"senderType"`
	IsInternal bool              `json:"isInternal"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID string `json:"agentId"`
}

// EscalateTicketRequest payload; level defaults to currentLevel+1.
type EscalateTicketRequest struct {
	Reason string `json:"reason"`
	Level  *int   `json:"level"`
}

// TicketResponse is the ticket wire representation.
type TicketResponse struct {
	ID                string                 `json:"id"`
	Subject           string                 `json:"subject"`
	Description       string                 `json:"description"`
	Category          domain.TicketCategory  `json:"category"`
	Priority          domain.TicketPriority  `json:"priority"`
	Status            domain.TicketStatus    `json:"status"`
	CustomerID        string                 `json:"customerId"`
	CustomerEmail     string                 `json:"customerEmail"`
	CustomerName      string                 `json:"customerName"`
	AssignedAgentID   *string                `json:"assignedAgentId"`
	SuggestedCategory *domain.TicketCategory `json:"suggestedCategory"`
	SuggestedPriority *domain.TicketPriority `json:"suggestedPriority"`
	AISummary         *string                `json:"aiSummary"`
	SuggestedResponse *string                `json:"suggestedResponse"`
	EscalationReason  *string                `json:"escalationReason"`
	EscalationLevel   int                    `json:"escalationLevel"`
	SLADeadline       time.Time              `json:"slaDeadline"`
	FirstResponseAt   *time.Time             `json:"firstResponseAt"`
	ResolvedAt        *time.Time             `json:"resolvedAt"`
	Tags              []string               `json:"tags"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// TicketMessageResponse represents a thread message.
type TicketMessageResponse struct {
	ID         string            `json:"id"`
	TicketID   string            `json:"ticketId"`
	SenderID   string            `json:"senderId"`
	SenderType domain.SenderType `json:"senderType"`
	Content    string            `json:"content"`
	IsInternal bool              `json:"isInternal"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// TicketDetailResponse is a ticket with its thread.
type TicketDetailResponse struct {
	TicketResponse
	Messages []TicketMessageResponse `json:"messages"`
}

// AnalysisResponse is the classification produced during routing.
type AnalysisResponse struct {
	Category          domain.TicketCategory `json:"category"`
	Priority          domain.TicketPriority `json:"priority"`
	Summary           string                `json:"summary"`
	SuggestedResponse string                `json:"suggestedResponse"`
	Tags              []string              `json:"tags"`
	Sentiment         string                `json:"sentiment"`
	ShouldEscalate    bool                  `json:"shouldEscalate"`
}

// CreateTicketResponse is returned from ticket intake.
type CreateTicketResponse struct {
	Ticket        TicketResponse   `json:"ticket"`
	Analysis      AnalysisResponse `json:"analysis"`
	AssignedAgent *AgentResponse   `json:"assignedAgent"`
}

// GenerateResponseResponse carries a drafted reply.
type GenerateResponseResponse struct {
	SuggestedResponse string `json:"suggestedResponse"`
}

// CheckEscalationsResponse reports an escalation sweep.
type CheckEscalationsResponse struct {
	EscalatedCount int              `json:"escalatedCount"`
	Tickets        []TicketResponse `json:"tickets"`
}

// EscalationRuleResponse is the rule wire representation.
type EscalationRuleResponse struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	Priority            domain.TicketPriority  `json:"priority"`
	Category            *domain.TicketCategory `json:"category"`
	TriggerAfterMinutes int                    `json:"triggerAfterMinutes"`
	EscalateToLevel     int                    `json:"escalateToLevel"`
	NotifyManagement    bool                   `json:"notifyManagement"`
	Active              bool                   `json:"active"`
}
