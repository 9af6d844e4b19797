package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/analyzer"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

func storedTicket(t *testing.T, repo repository.TicketRepository, category domain.TicketCategory, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		ID:          "t1",
		Subject:     "Cannot log in",
		Description: "Password reset loop keeps sending me back.",
		Category:    category,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		SLADeadline: testClock.Add(domain.SLAWindow(priority)),
		CreatedAt:   testClock,
		UpdatedAt:   testClock,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestRouteTicketClassificationOverridesSubmission(t *testing.T) {
	an := &stubAnalyzer{analysis: &analyzer.Analysis{
		Category:          domain.CategoryAccount,
		Priority:          domain.TicketPriorityUrgent,
		Summary:           "Customer locked out of account",
		SuggestedResponse: "We will restore your access.",
		Tags:              []string{"account", "login"},
		Sentiment:         "negative",
	}}
	svc, ticketRepo, _ := newRouterForTest(an)

	// Customer filed it as a medium general question.
	ticket := storedTicket(t, ticketRepo, domain.CategoryGeneral, domain.TicketPriorityMedium)

	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryAccount, result.Ticket.Category)
	assert.Equal(t, domain.TicketPriorityUrgent, result.Ticket.Priority)
	require.NotNil(t, result.Ticket.AISummary)
	assert.Equal(t, "Customer locked out of account", *result.Ticket.AISummary)
	assert.Equal(t, []string{"account", "login"}, result.Ticket.Tags)

	stored, err := ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryAccount, stored.Category)
	assert.Equal(t, domain.TicketPriorityUrgent, stored.Priority)
}

func TestRouteTicketAnalyzerFailureFallsBack(t *testing.T) {
	an := &stubAnalyzer{analyzeErr: errors.New("upstream timeout")}
	svc, ticketRepo, _ := newRouterForTest(an)

	ticket := storedTicket(t, ticketRepo, domain.CategoryBilling, domain.TicketPriorityHigh)

	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	// Fallback keeps the submitted classification.
	assert.Equal(t, domain.CategoryBilling, result.Ticket.Category)
	assert.Equal(t, domain.TicketPriorityHigh, result.Ticket.Priority)
	assert.Equal(t, "Unable to analyze ticket automatically", result.Analysis.Summary)
	assert.NotEmpty(t, result.Analysis.SuggestedResponse)
}

func TestRouteTicketPicksLeastLoadedSkilledAgent(t *testing.T) {
	an := &stubAnalyzer{analysis: &analyzer.Analysis{
		Category: domain.CategoryBilling,
		Priority: domain.TicketPriorityMedium,
	}}
	svc, ticketRepo, agentRepo := newRouterForTest(an)

	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "busy", Skills: []domain.TicketCategory{domain.CategoryBilling},
		CurrentTicketCount: 7, IsAvailable: true, IsOnline: true,
	})
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "idle", Skills: []domain.TicketCategory{domain.CategoryBilling},
		CurrentTicketCount: 1, IsAvailable: true, IsOnline: true,
	})

	ticket := storedTicket(t, ticketRepo, domain.CategoryBilling, domain.TicketPriorityMedium)
	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	require.NotNil(t, result.AssignedAgent)
	assert.Equal(t, "idle", result.AssignedAgent.ID)
	assert.Equal(t, 2, result.AssignedAgent.CurrentTicketCount)

	stored, err := agentRepo.GetByID(context.Background(), "idle")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentTicketCount)
}

func TestRouteTicketUrgentPrefersWeightedScore(t *testing.T) {
	an := &stubAnalyzer{analysis: &analyzer.Analysis{
		Category: domain.CategoryTechnical,
		Priority: domain.TicketPriorityUrgent,
	}}
	svc, ticketRepo, agentRepo := newRouterForTest(an)

	// Less loaded but mediocre: 3.0 * (1 - 0.1) = 2.7.
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "mediocre", Skills: []domain.TicketCategory{domain.CategoryTechnical},
		CurrentTicketCount: 1, SatisfactionScore: 3.0, IsAvailable: true, IsOnline: true,
	})
	// More loaded but excellent: 4.8 * (1 - 0.3) = 3.36.
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "excellent", Skills: []domain.TicketCategory{domain.CategoryTechnical},
		CurrentTicketCount: 3, SatisfactionScore: 4.8, IsAvailable: true, IsOnline: true,
	})

	ticket := storedTicket(t, ticketRepo, domain.CategoryTechnical, domain.TicketPriorityUrgent)
	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	require.NotNil(t, result.AssignedAgent)
	assert.Equal(t, "excellent", result.AssignedAgent.ID)
}

func TestRouteTicketFallsBackToAnyOnlineAgent(t *testing.T) {
	an := &stubAnalyzer{analysis: &analyzer.Analysis{
		Category: domain.CategoryBugReport,
		Priority: domain.TicketPriorityMedium,
	}}
	svc, ticketRepo, agentRepo := newRouterForTest(an)

	// Nobody is skilled in bug reports; the online generalist wins.
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "offline", Skills: []domain.TicketCategory{domain.CategoryBilling},
		IsAvailable: true, IsOnline: false,
	})
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "generalist", Skills: []domain.TicketCategory{domain.CategoryGeneral},
		IsAvailable: true, IsOnline: true,
	})

	ticket := storedTicket(t, ticketRepo, domain.CategoryGeneral, domain.TicketPriorityMedium)
	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	require.NotNil(t, result.AssignedAgent)
	assert.Equal(t, "generalist", result.AssignedAgent.ID)
}

func TestRouteTicketNoAgentLeavesUnassigned(t *testing.T) {
	an := &stubAnalyzer{analysis: &analyzer.Analysis{
		Category: domain.CategoryGeneral,
		Priority: domain.TicketPriorityLow,
	}}
	svc, ticketRepo, agentRepo := newRouterForTest(an)

	// Online but at capacity.
	seedAgent(t, agentRepo, &domain.SupportAgent{
		ID: "full", Skills: []domain.TicketCategory{domain.CategoryGeneral},
		MaxTickets: 5, CurrentTicketCount: 5, IsAvailable: true, IsOnline: true,
	})

	ticket := storedTicket(t, ticketRepo, domain.CategoryGeneral, domain.TicketPriorityLow)
	result, err := svc.RouteTicket(context.Background(), ticket)
	require.NoError(t, err)

	assert.Nil(t, result.AssignedAgent)
	assert.Nil(t, result.Ticket.AssignedAgentID)
}

func TestGenerateResponseStoresReply(t *testing.T) {
	an := &stubAnalyzer{response: "Here is how to fix it."}
	svc, ticketRepo, _ := newRouterForTest(an)

	ticket := storedTicket(t, ticketRepo, domain.CategoryTechnical, domain.TicketPriorityMedium)

	reply, err := svc.GenerateResponse(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Here is how to fix it.", reply)

	stored, err := ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SuggestedResponse)
	assert.Equal(t, reply, *stored.SuggestedResponse)
}

func TestGenerateResponseFallsBackOnError(t *testing.T) {
	an := &stubAnalyzer{responseErr: errors.New("model unavailable")}
	svc, ticketRepo, _ := newRouterForTest(an)

	ticket := storedTicket(t, ticketRepo, domain.CategoryTechnical, domain.TicketPriorityMedium)

	reply, err := svc.GenerateResponse(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, analyzer.FallbackResponse(), reply)
}

func TestGenerateResponseUnknownTicket(t *testing.T) {
	svc, _, _ := newRouterForTest(&stubAnalyzer{response: "hi"})
	_, err := svc.GenerateResponse(context.Background(), "missing")
	assertHTTPStatus(t, err, 404)
}
