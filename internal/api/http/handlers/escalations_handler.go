package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

// EscalationsHandler exposes the rule set and the scan trigger.
type EscalationsHandler struct {
	escalations *service.EscalationService
	rules       repository.RuleRepository
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalations *service.EscalationService, rules repository.RuleRepository) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations, rules: rules}
}

// CheckEscalations POST /check-escalations runs one scan pass.
func (h *EscalationsHandler) CheckEscalations(c *fiber.Ctx) error {
	escalated, err := h.escalations.CheckEscalations(c.UserContext())
	if err != nil {
		return err
	}
	resp := dto.CheckEscalationsResponse{
		EscalatedCount: len(escalated),
		Tickets:        make([]dto.TicketResponse, 0, len(escalated)),
	}
	for i := range escalated {
		resp.Tickets = append(resp.Tickets, ticketResponse(&escalated[i]))
	}
	return c.JSON(resp)
}

// ListRules GET /escalation-rules.
func (h *EscalationsHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.rules.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EscalationRuleResponse, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		items = append(items, dto.EscalationRuleResponse{
			ID:                  rule.ID,
			Name:                rule.Name,
			Priority:            rule.Priority,
			Category:            rule.Category,
			TriggerAfterMinutes: rule.TriggerAfterMinutes,
			EscalateToLevel:     rule.EscalateToLevel,
			NotifyManagement:    rule.NotifyManagement,
			Active:              rule.Active,
		})
	}
	return c.JSON(items)
}
