package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	router  *service.RouterService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, router *service.RouterService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, router: router}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Subject:       req.Subject,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomerID:    req.CustomerID,
		Category:      req.Category,
		Priority:      req.Priority,
	})
	if err != nil {
		return err
	}

	result, err := h.router.RouteTicket(c.UserContext(), ticket)
	if err != nil {
		return err
	}

	resp := dto.CreateTicketResponse{
		Ticket: ticketResponse(result.Ticket),
		Analysis: dto.AnalysisResponse{
			Category:          result.Analysis.Category,
			Priority:          result.Analysis.Priority,
			Summary:           result.Analysis.Summary,
			SuggestedResponse: result.Analysis.SuggestedResponse,
			Tags:              result.Analysis.Tags,
			Sentiment:         result.Analysis.Sentiment,
			ShouldEscalate:    result.Analysis.ShouldEscalate,
		},
	}
	if result.AssignedAgent != nil {
		agent := agentResponse(result.AssignedAgent)
		resp.AssignedAgent = &agent
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTickets GET /tickets?status=&agentId=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := repository.TicketFilter{}
	if status := c.Query("status"); status != "" {
		parsed := domain.TicketStatus(status)
		if !domain.ValidStatus(parsed) {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": status})
		}
		filter.Status = &parsed
	}
	if agentID := c.Query("agentId"); agentID != "" {
		filter.AgentID = &agentID
	}

	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, msgs, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		Messages:       make([]dto.TicketMessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, messageResponse(&msgs[i]))
	}
	return c.JSON(detail)
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Status:   req.Status,
		Priority: req.Priority,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.tickets.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.tickets.AddMessage(c.UserContext(), service.MessageCreateInput{
		TicketID:   c.Params("id"),
		SenderID:   req.SenderID,
		SenderType: req.SenderType,
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(messageResponse(msg))
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentID == "" {
		return apperrors.NewValidationError("agentId required", nil)
	}
	ticket, err := h.tickets.AssignTicket(c.UserContext(), c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// EscalateTicket POST /tickets/:id/escalate.
func (h *TicketsHandler) EscalateTicket(c *fiber.Ctx) error {
	var req dto.EscalateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.EscalateTicket(c.UserContext(), c.Params("id"), req.Reason, req.Level)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// GenerateResponse POST /tickets/:id/generate-response.
func (h *TicketsHandler) GenerateResponse(c *fiber.Ctx) error {
	reply, err := h.router.GenerateResponse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateResponseResponse{SuggestedResponse: reply})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                ticket.ID,
		Subject:           ticket.Subject,
		Description:       ticket.Description,
		Category:          ticket.Category,
		Priority:          ticket.Priority,
		Status:            ticket.Status,
		CustomerID:        ticket.CustomerID,
		CustomerEmail:     ticket.CustomerEmail,
		CustomerName:      ticket.CustomerName,
		AssignedAgentID:   ticket.AssignedAgentID,
		SuggestedCategory: ticket.SuggestedCategory,
		SuggestedPriority: ticket.SuggestedPriority,
		AISummary:         ticket.AISummary,
		SuggestedResponse: ticket.SuggestedResponse,
		EscalationReason:  ticket.EscalationReason,
		EscalationLevel:   ticket.EscalationLevel,
		SLADeadline:       ticket.SLADeadline,
		FirstResponseAt:   ticket.FirstResponseAt,
		ResolvedAt:        ticket.ResolvedAt,
		Tags:              ticket.Tags,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

func messageResponse(msg *domain.TicketMessage) dto.TicketMessageResponse {
	return dto.TicketMessageResponse{
		ID:         msg.ID,
		TicketID:   msg.TicketID,
		SenderID:   msg.SenderID,
		SenderType: msg.SenderType,
		Content:    msg.Content,
		IsInternal: msg.IsInternal,
		CreatedAt:  msg.CreatedAt,
	}
}
