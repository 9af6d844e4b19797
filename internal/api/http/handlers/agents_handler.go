package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AgentsHandler manages agent directory endpoints.
type AgentsHandler struct {
	agents *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService) *AgentsHandler {
	return &AgentsHandler{agents: agents}
}

// ListAgents GET /agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.agents.ListAgents(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, agentResponse(&agents[i]))
	}
	return c.JSON(items)
}

// GetAgent GET /agents/:id.
func (h *AgentsHandler) GetAgent(c *fiber.Ctx) error {
	agent, err := h.agents.GetAgent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(agentResponse(agent))
}

// CreateAgent POST /agents.
func (h *AgentsHandler) CreateAgent(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.agents.CreateAgent(c.UserContext(), service.AgentCreateInput{
		Name:              req.Name,
		Email:             req.Email,
		Skills:            req.Skills,
		MaxTickets:        req.MaxTickets,
		IsAvailable:       req.IsAvailable,
		IsOnline:          req.IsOnline,
		SatisfactionScore: req.SatisfactionScore,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(agentResponse(agent))
}

// UpdateAgent PATCH /agents/:id.
func (h *AgentsHandler) UpdateAgent(c *fiber.Ctx) error {
	var req dto.UpdateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.agents.UpdateAgent(c.UserContext(), c.Params("id"), service.AgentUpdateInput{
		Name:              req.Name,
		Email:             req.Email,
		Skills:            req.Skills,
		MaxTickets:        req.MaxTickets,
		IsAvailable:       req.IsAvailable,
		IsOnline:          req.IsOnline,
		SatisfactionScore: req.SatisfactionScore,
	})
	if err != nil {
		return err
	}
	return c.JSON(agentResponse(agent))
}

// DeleteAgent DELETE /agents/:id.
func (h *AgentsHandler) DeleteAgent(c *fiber.Ctx) error {
	if err := h.agents.DeleteAgent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func agentResponse(agent *domain.SupportAgent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:                  agent.ID,
		Name:                agent.Name,
		Email:               agent.Email,
		Skills:              agent.Skills,
		MaxTickets:          agent.MaxTickets,
		CurrentTicketCount:  agent.CurrentTicketCount,
		IsAvailable:         agent.IsAvailable,
		IsOnline:            agent.IsOnline,
		AverageResponseTime: agent.AverageResponseTime,
		SatisfactionScore:   agent.SatisfactionScore,
		CreatedAt:           agent.CreatedAt,
		UpdatedAt:           agent.UpdatedAt,
	}
}
