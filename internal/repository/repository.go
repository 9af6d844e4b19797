package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/support-desk/internal/domain"
)

// ErrNotFound is returned when a record id cannot be resolved.
var ErrNotFound = errors.New("record not found")

// TicketFilter captures ticket listing parameters.
type TicketFilter struct {
	Status  *domain.TicketStatus
	AgentID *string
}

// TicketRepository encapsulates ticket and message persistence. The
// ticket store exclusively owns both record types; deleting a ticket
// cascades to its messages.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, msg *domain.TicketMessage) error
	ListMessages(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

// AgentRepository encapsulates the agent directory. AdjustLoad must be
// an atomic read-modify-write on the single agent record.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.SupportAgent) error
	Update(ctx context.Context, agent *domain.SupportAgent) error
	GetByID(ctx context.Context, id string) (*domain.SupportAgent, error)
	List(ctx context.Context) ([]domain.SupportAgent, error)
	Delete(ctx context.Context, id string) error
	FindAvailableForCategory(ctx context.Context, category domain.TicketCategory) ([]domain.SupportAgent, error)
	AdjustLoad(ctx context.Context, id string, delta int) error
}

// RuleRepository stores escalation rules in evaluation order.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.EscalationRule) error
	List(ctx context.Context) ([]domain.EscalationRule, error)
	ListActive(ctx context.Context) ([]domain.EscalationRule, error)
}
