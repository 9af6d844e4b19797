package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketService coordinates the ticket store: lifecycle, message threads
// and the manual assignment/escalation operations.
type TicketService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject       string
	Description   string
	CustomerEmail string
	CustomerName  string
	CustomerID    string
	Category      domain.TicketCategory
	Priority      domain.TicketPriority
}

// TicketUpdateInput carries partial ticket fields; nil means unchanged.
type TicketUpdateInput struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
	Tags     []string
}

// MessageCreateInput describes a new thread entry.
type MessageCreateInput struct {
	TicketID   string
	SenderID   string
	SenderType domain.SenderType
	Content    string
	IsInternal bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateTicket persists a new ticket with its SLA deadline and seeds the
// thread with the customer's description.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" || input.CustomerEmail == "" || input.CustomerName == "" {
		return nil, apperrors.NewValidationError("subject, description, customerEmail, customerName required", nil)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	customerID := input.CustomerID
	if customerID == "" {
		customerID = uuid.NewString()
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:              uuid.NewString(),
		Subject:         subject,
		Description:     description,
		Category:        category,
		Priority:        priority,
		Status:          domain.TicketStatusOpen,
		CustomerID:      customerID,
		CustomerEmail:   input.CustomerEmail,
		CustomerName:    input.CustomerName,
		EscalationLevel: 0,
		SLADeadline:     now.Add(domain.SLAWindow(priority)),
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	// The thread opens with the customer's original description.
	first := &domain.TicketMessage{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		SenderID:   customerID,
		SenderType: domain.SenderTypeCustomer,
		Content:    description,
		CreatedAt:  now,
	}
	if err := s.tickets.CreateMessage(ctx, first); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Subject:       ticket.Subject,
			Category:      ticket.Category,
			Priority:      ticket.Priority,
			CustomerEmail: ticket.CustomerEmail,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket with its message thread.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	msgs, err := s.tickets.ListMessages(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, msgs, nil
}

// ListTickets returns tickets newest-created-first, optionally filtered
// by status or assigned agent.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateTicket merges partial fields into the ticket. Setting status to
// resolved stamps resolvedAt when it is still unset.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	if input.Status != nil && *input.Status != ticket.Status {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		if !isValidTransition(ticket.Status, *input.Status) {
			return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
				"from": ticket.Status,
				"to":   *input.Status,
			})
		}
		oldStatus := ticket.Status
		ticket.Status = *input.Status
		if ticket.Status == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
			resolvedAt := now
			ticket.ResolvedAt = &resolvedAt
		}
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *input.Category})
		}
		ticket.Category = *input.Category
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
	}
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// DeleteTicket removes the ticket and cascades its messages. An assigned
// agent gets its load released so the count does not leak.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if ticket.AssignedAgentID != nil {
		if err := s.agents.AdjustLoad(ctx, *ticket.AssignedAgentID, -1); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}
	}
	return nil
}

// AddMessage appends to the thread. The first agent reply stamps the
// ticket's firstResponseAt and moves an open ticket to in_progress.
func (s *TicketService) AddMessage(ctx context.Context, input MessageCreateInput) (*domain.TicketMessage, error) {
	if strings.TrimSpace(input.Content) == "" || input.SenderID == "" {
		return nil, apperrors.NewValidationError("content and senderId required", nil)
	}
	if !domain.ValidSenderType(input.SenderType) {
		return nil, apperrors.NewValidationError("unknown senderType", map[string]any{"sender_type": input.SenderType})
	}

	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	msg := &domain.TicketMessage{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		SenderID:   input.SenderID,
		SenderType: input.SenderType,
		Content:    strings.TrimSpace(input.Content),
		IsInternal: input.IsInternal,
		CreatedAt:  now,
	}
	if err := s.tickets.CreateMessage(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.SenderType == domain.SenderTypeAgent && ticket.FirstResponseAt == nil {
		firstResponse := now
		ticket.FirstResponseAt = &firstResponse
		if ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusInProgress
		}
		ticket.UpdatedAt = now
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			SenderType:  msg.SenderType,
			IsInternal:  msg.IsInternal,
			BodyPreview: stringPreview(msg.Content, 120),
		},
	})
	return msg, nil
}

// AssignTicket manually assigns the ticket to an agent, rebalancing the
// load counters between the previous and new assignee. Capacity is not
// re-checked here; the override is deliberate.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, agentID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}

	previous := ticket.AssignedAgentID
	if previous != nil && *previous == agentID {
		return ticket, nil
	}

	ticket.AssignedAgentID = &agent.ID
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if previous != nil {
		if err := s.agents.AdjustLoad(ctx, *previous, -1); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.MapError(err)
		}
	}
	if err := s.agents.AdjustLoad(ctx, agent.ID, 1); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.appendSystemMessage(ctx, ticket.ID, "Ticket assigned to "+agent.Name)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload: events.TicketAssignedPayload{
			AgentID:         ticket.AssignedAgentID,
			PreviousAgentID: previous,
			Automatic:       false,
		},
	})
	return ticket, nil
}

// EscalateTicket raises the ticket's escalation level manually. The
// level defaults to currentLevel+1 and may only increase.
func (s *TicketService) EscalateTicket(ctx context.Context, ticketID, reason string, level *int) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("cannot escalate a resolved or closed ticket", map[string]any{
			"status": ticket.Status,
		})
	}

	target := ticket.EscalationLevel + 1
	if level != nil {
		target = *level
	}
	if target <= ticket.EscalationLevel {
		return nil, apperrors.NewValidationError("escalation level can only increase", map[string]any{
			"current": ticket.EscalationLevel,
			"target":  target,
		})
	}

	if reason == "" {
		reason = "Manually escalated"
	}
	ticket.Status = domain.TicketStatusEscalated
	ticket.EscalationLevel = target
	ticket.EscalationReason = &reason
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.appendSystemMessage(ctx, ticket.ID, "Ticket escalated: "+reason)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		Payload: events.TicketEscalatedPayload{
			Reason: reason,
			Level:  ticket.EscalationLevel,
		},
	})
	return ticket, nil
}

// ResolveAssignedAgent looks up the ticket's assignee; a missing agent
// record reads as unassigned.
func (s *TicketService) ResolveAssignedAgent(ctx context.Context, ticket *domain.Ticket) *domain.SupportAgent {
	if ticket.AssignedAgentID == nil {
		return nil
	}
	agent, err := s.agents.GetByID(ctx, *ticket.AssignedAgentID)
	if err != nil {
		return nil
	}
	return agent
}

func (s *TicketService) appendSystemMessage(ctx context.Context, ticketID, content string) {
	msg := &domain.TicketMessage{
		ID:         uuid.NewString(),
		TicketID:   ticketID,
		SenderID:   "system",
		SenderType: domain.SenderTypeSystem,
		Content:    content,
		CreatedAt:  s.now(),
	}
	_ = s.tickets.CreateMessage(ctx, msg)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

// allowedTransitions encodes the ticket lifecycle. resolved and closed
// are terminal except for the resolved->closed hand-off.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen: {
		domain.TicketStatusInProgress,
		domain.TicketStatusPendingCustomer,
		domain.TicketStatusEscalated,
		domain.TicketStatusResolved,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusPendingCustomer,
		domain.TicketStatusEscalated,
		domain.TicketStatusResolved,
	},
	domain.TicketStatusPendingCustomer: {
		domain.TicketStatusInProgress,
		domain.TicketStatusEscalated,
		domain.TicketStatusResolved,
	},
	domain.TicketStatusEscalated: {
		domain.TicketStatusInProgress,
		domain.TicketStatusPendingCustomer,
		domain.TicketStatusResolved,
	},
	domain.TicketStatusResolved: {domain.TicketStatusClosed},
	domain.TicketStatusClosed:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
