package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analyzer"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

var testClock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	require.Equal(t, status, domainErr.HTTPStatus)
}

func seedAgent(t *testing.T, repo repository.AgentRepository, agent *domain.SupportAgent) *domain.SupportAgent {
	t.Helper()
	if agent.MaxTickets == 0 {
		agent.MaxTickets = 10
	}
	require.NoError(t, repo.Create(context.Background(), agent))
	return agent
}

// stubAnalyzer lets tests script classification outcomes.
type stubAnalyzer struct {
	analysis    *analyzer.Analysis
	analyzeErr  error
	response    string
	responseErr error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, subject, description string) (*analyzer.Analysis, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.analysis, nil
}

func (s *stubAnalyzer) GenerateResponse(ctx context.Context, ticket *domain.Ticket) (string, error) {
	if s.responseErr != nil {
		return "", s.responseErr
	}
	return s.response, nil
}

func newTicketServiceForTest() (*TicketService, repository.TicketRepository, repository.AgentRepository) {
	ticketRepo := repository.NewMemoryTicketRepository()
	agentRepo := repository.NewMemoryAgentRepository()
	svc := NewTicketService(TicketDependencies{TicketRepo: ticketRepo, AgentRepo: agentRepo})
	svc.now = fixedClock(testClock)
	return svc, ticketRepo, agentRepo
}

func newRouterForTest(an analyzer.Analyzer) (*RouterService, repository.TicketRepository, repository.AgentRepository) {
	ticketRepo := repository.NewMemoryTicketRepository()
	agentRepo := repository.NewMemoryAgentRepository()
	svc := NewRouterService(RouterDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Analyzer:   an,
		Logger:     zap.NewNop(),
	})
	svc.now = fixedClock(testClock)
	return svc, ticketRepo, agentRepo
}

func newEscalationForTest() (*EscalationService, repository.TicketRepository, repository.RuleRepository) {
	ticketRepo := repository.NewMemoryTicketRepository()
	ruleRepo := repository.NewMemoryRuleRepository()
	svc := NewEscalationService(EscalationDependencies{
		TicketRepo: ticketRepo,
		RuleRepo:   ruleRepo,
		Logger:     zap.NewNop(),
	})
	svc.now = fixedClock(testClock)
	return svc, ticketRepo, ruleRepo
}
