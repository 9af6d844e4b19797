package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/analyzer"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

func newTestApp(t *testing.T, adminKeyHash string) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	ticketRepo := repository.NewMemoryTicketRepository()
	agentRepo := repository.NewMemoryAgentRepository()
	ruleRepo := repository.NewMemoryRuleRepository()
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
	})
	routerService := service.NewRouterService(service.RouterDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Analyzer:   analyzer.NewHeuristic(),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		TicketRepo: ticketRepo,
		RuleRepo:   ruleRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Logger:     logger,
	})
	agentService := service.NewAgentService(agentRepo)

	tokenManager := auth.NewTokenManager("test-secret", 60)
	adminAuth := auth.NewAdminAuth(tokenManager, adminKeyHash)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler(nil, nil),
		Tickets:     handlers.NewTicketsHandler(ticketService, routerService),
		Agents:      handlers.NewAgentsHandler(agentService),
		Escalations: handlers.NewEscalationsHandler(escalationService, ruleRepo),
		Stats:       handlers.NewStatsHandler(statsService),
		Auth:        handlers.NewAuthHandler(adminAuth),
		AdminAuth:   adminAuth,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(t, "")

	resp, body := doJSON(t, app, http.MethodPost, "/tickets", map[string]any{
		"subject":       "Invoice charged twice",
		"description":   "I was billed two times for the same subscription.",
		"customerEmail": "jo@example.com",
		"customerName":  "Jo Doe",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ticket, ok := body["ticket"].(map[string]any)
	require.True(t, ok, "response missing ticket: %v", body)
	assert.Equal(t, "open", ticket["status"])
	assert.Equal(t, "billing", ticket["category"])
	assert.NotEmpty(t, ticket["slaDeadline"])

	analysis, ok := body["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "billing", analysis["category"])
}

func TestCreateTicketEndpointValidation(t *testing.T) {
	app := newTestApp(t, "")

	resp, body := doJSON(t, app, http.MethodPost, "/tickets", map[string]any{
		"subject": "No description",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestGetTicketNotFoundEnvelope(t *testing.T) {
	app := newTestApp(t, "")

	resp, body := doJSON(t, app, http.MethodGet, "/tickets/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t, "")

	resp, body := doJSON(t, app, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "totalTickets")
	assert.Contains(t, body, "slaBreaches")
}

func TestAdminRoutesOpenWithoutKeyHash(t *testing.T) {
	app := newTestApp(t, "")

	resp, _ := doJSON(t, app, http.MethodPost, "/check-escalations", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesRequireTokenWhenConfigured(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-key"), bcrypt.MinCost)
	require.NoError(t, err)
	app := newTestApp(t, string(hash))

	resp, _ := doJSON(t, app, http.MethodPost, "/check-escalations", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Exchange the key for a token and retry.
	resp, body := doJSON(t, app, http.MethodPost, "/auth/token", map[string]any{"key": "admin-key"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/check-escalations", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	authed, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, authed.StatusCode)
}

func TestAuthTokenRejectsWrongKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-key"), bcrypt.MinCost)
	require.NoError(t, err)
	app := newTestApp(t, string(hash))

	resp, body := doJSON(t, app, http.MethodPost, "/auth/token", map[string]any{"key": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}
