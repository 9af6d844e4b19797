package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// EscalationService sweeps open tickets against the active rule set and
// promotes overdue ones. It never touches the agent directory and is not
// self-scheduling; callers invoke CheckEscalations on demand or from a
// timer.
type EscalationService struct {
	tickets    repository.TicketRepository
	rules      repository.RuleRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EscalationDependencies bundles collaborators for the scanner.
type EscalationDependencies struct {
	TicketRepo repository.TicketRepository
	RuleRepo   repository.RuleRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewEscalationService constructs the scanner.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		tickets:    deps.TicketRepo,
		rules:      deps.RuleRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// CheckEscalations evaluates every open ticket against the active rules
// in stored order and returns the tickets escalated by this pass. Rule
// evaluation for a ticket stops at the first rule whose age and level
// conditions are both met.
func (s *EscalationService) CheckEscalations(ctx context.Context) ([]domain.Ticket, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	escalated := make([]domain.Ticket, 0)
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.Status.IsTerminal() || ticket.Status == domain.TicketStatusEscalated {
			continue
		}
		ageMinutes := now.Sub(ticket.CreatedAt).Minutes()

		for j := range rules {
			rule := &rules[j]
			if !rule.Matches(ticket) {
				continue
			}
			if ageMinutes < float64(rule.TriggerAfterMinutes) {
				continue
			}
			if ticket.EscalationLevel >= rule.EscalateToLevel {
				continue
			}

			reason := "Auto-escalated: " + rule.Name
			ticket.Status = domain.TicketStatusEscalated
			ticket.EscalationLevel = rule.EscalateToLevel
			ticket.EscalationReason = &reason
			ticket.UpdatedAt = now
			if err := s.tickets.Update(ctx, ticket); err != nil {
				return nil, apperrors.MapError(err)
			}
			s.appendScanMessage(ctx, ticket.ID, reason)
			s.publish(ctx, events.Event{
				Type:     events.EventTicketEscalated,
				TicketID: ticket.ID,
				Payload: events.TicketEscalatedPayload{
					Reason:           reason,
					Level:            rule.EscalateToLevel,
					RuleName:         rule.Name,
					NotifyManagement: rule.NotifyManagement,
				},
			})
			s.logger.Info("ticket auto-escalated",
				zap.String("ticket_id", ticket.ID),
				zap.String("rule", rule.Name),
				zap.Int("level", rule.EscalateToLevel),
			)
			escalated = append(escalated, *ticket)
			break
		}
	}
	return escalated, nil
}

func (s *EscalationService) appendScanMessage(ctx context.Context, ticketID, reason string) {
	msg := &domain.TicketMessage{
		ID:         uuid.NewString(),
		TicketID:   ticketID,
		SenderID:   "system",
		SenderType: domain.SenderTypeSystem,
		Content:    reason,
		CreatedAt:  s.now(),
	}
	_ = s.tickets.CreateMessage(ctx, msg)
}

func (s *EscalationService) publish(ctx context.Context, event events.Event) {
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
