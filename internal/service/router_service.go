package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analyzer"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// RouterService orchestrates ticket intake: analyze, classify, pick the
// best agent, persist the assignment and bump the agent's load. Routing
// never fails because of the analyzer; classification errors degrade to
// a fallback analysis.
type RouterService struct {
	tickets         repository.TicketRepository
	agents          repository.AgentRepository
	analyzer        analyzer.Analyzer
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	analyzerTimeout time.Duration
	now             func() time.Time
}

// RouterDependencies bundles collaborators for the router.
type RouterDependencies struct {
	TicketRepo      repository.TicketRepository
	AgentRepo       repository.AgentRepository
	Analyzer        analyzer.Analyzer
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	AnalyzerTimeout time.Duration
}

// RoutingResult reports what intake decided for a ticket.
type RoutingResult struct {
	Ticket        *domain.Ticket
	Analysis      *analyzer.Analysis
	AssignedAgent *domain.SupportAgent
}

// NewRouterService constructs the router.
func NewRouterService(deps RouterDependencies) *RouterService {
	timeout := deps.AnalyzerTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RouterService{
		tickets:         deps.TicketRepo,
		agents:          deps.AgentRepo,
		analyzer:        deps.Analyzer,
		dispatcher:      deps.Dispatcher,
		logger:          deps.Logger,
		analyzerTimeout: timeout,
		now:             time.Now,
	}
}

// RouteTicket classifies the ticket and assigns it to the best available
// agent. Must be called exactly once per ticket, at creation time: a
// second call re-runs classification and double-counts agent load.
func (r *RouterService) RouteTicket(ctx context.Context, ticket *domain.Ticket) (*RoutingResult, error) {
	analysis := r.analyze(ctx, ticket)

	agent, err := r.findBestAgent(ctx, analysis.Category, analysis.Priority)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	// The analyzer's judgment supersedes the customer-submitted
	// classification.
	ticket.Category = analysis.Category
	ticket.Priority = analysis.Priority
	suggestedCategory := analysis.Category
	suggestedPriority := analysis.Priority
	summary := analysis.Summary
	suggestedResponse := analysis.SuggestedResponse
	ticket.SuggestedCategory = &suggestedCategory
	ticket.SuggestedPriority = &suggestedPriority
	ticket.AISummary = &summary
	ticket.SuggestedResponse = &suggestedResponse
	ticket.Tags = analysis.Tags
	if agent != nil {
		ticket.AssignedAgentID = &agent.ID
	}
	ticket.UpdatedAt = r.now()

	if err := r.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if agent != nil {
		if err := r.agents.AdjustLoad(ctx, agent.ID, 1); err != nil {
			return nil, apperrors.MapError(err)
		}
		agent.CurrentTicketCount++
		r.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Payload: events.TicketAssignedPayload{
				AgentID:   &agent.ID,
				Automatic: true,
			},
		})
	}

	return &RoutingResult{Ticket: ticket, Analysis: analysis, AssignedAgent: agent}, nil
}

// GenerateResponse drafts a reply for the ticket, storing it as the
// suggested response. Analyzer failures yield the templated fallback and
// never an error.
func (r *RouterService) GenerateResponse(ctx context.Context, ticketID string) (string, error) {
	ticket, err := r.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return "", apperrors.MapError(err)
	}

	actx, cancel := context.WithTimeout(ctx, r.analyzerTimeout)
	defer cancel()
	reply, err := r.analyzer.GenerateResponse(actx, ticket)
	if err != nil {
		r.logger.Warn("response generation failed, using fallback",
			zap.String("ticket_id", ticketID), zap.Error(err))
		reply = analyzer.FallbackResponse()
	}

	ticket.SuggestedResponse = &reply
	ticket.UpdatedAt = r.now()
	if err := r.tickets.Update(ctx, ticket); err != nil {
		return "", apperrors.MapError(err)
	}
	return reply, nil
}

func (r *RouterService) analyze(ctx context.Context, ticket *domain.Ticket) *analyzer.Analysis {
	actx, cancel := context.WithTimeout(ctx, r.analyzerTimeout)
	defer cancel()

	analysis, err := r.analyzer.Analyze(actx, ticket.Subject, ticket.Description)
	if err != nil {
		r.logger.Warn("ticket analysis failed, using fallback",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return analyzer.Fallback(ticket.Category, ticket.Priority)
	}
	return analysis
}

// findBestAgent picks an assignee for the classification, or nil when no
// agent qualifies.
func (r *RouterService) findBestAgent(ctx context.Context, category domain.TicketCategory, priority domain.TicketPriority) (*domain.SupportAgent, error) {
	pool, err := r.agents.FindAvailableForCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(pool) > 0 {
		if priority == domain.TicketPriorityUrgent || priority == domain.TicketPriorityHigh {
			// Prefer high-quality agents with spare capacity over pure
			// least-loaded for urgent work.
			sort.SliceStable(pool, func(i, j int) bool {
				return weightedScore(&pool[i]) > weightedScore(&pool[j])
			})
		}
		return &pool[0], nil
	}

	// No skilled agent available: any online agent under capacity,
	// least-loaded first.
	all, err := r.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	fallback := make([]domain.SupportAgent, 0, len(all))
	for _, agent := range all {
		if agent.IsOnline && agent.HasCapacity() {
			fallback = append(fallback, agent)
		}
	}
	if len(fallback) == 0 {
		return nil, nil
	}
	sort.SliceStable(fallback, func(i, j int) bool {
		return fallback[i].LoadRatio() < fallback[j].LoadRatio()
	})
	return &fallback[0], nil
}

func weightedScore(agent *domain.SupportAgent) float64 {
	return agent.SatisfactionScore * (1 - agent.LoadRatio())
}

func (r *RouterService) publish(ctx context.Context, event events.Event) {
	if r.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	_ = r.dispatcher.Publish(ctx, event)
}
