package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// SeedDefaults populates the agent directory and rule set with the
// default records when both are empty, mirroring the reference
// deployment's startup state.
func SeedDefaults(ctx context.Context, agents repository.AgentRepository, rules repository.RuleRepository, logger *zap.Logger) error {
	existingAgents, err := agents.List(ctx)
	if err != nil {
		return err
	}
	if len(existingAgents) == 0 {
		now := time.Now()
		defaults := []domain.SupportAgent{
			{
				ID:    uuid.NewString(),
				Name:  "Sarah Chen",
				Email: "sarah.chen@example.com",
				Skills: []domain.TicketCategory{
					domain.CategoryBilling, domain.CategoryAccount,
				},
				MaxTickets:          8,
				IsAvailable:         true,
				IsOnline:            true,
				AverageResponseTime: 12,
				SatisfactionScore:   4.8,
				CreatedAt:           now,
				UpdatedAt:           now,
			},
			{
				ID:    uuid.NewString(),
				Name:  "Marcus Webb",
				Email: "marcus.webb@example.com",
				Skills: []domain.TicketCategory{
					domain.CategoryTechnical, domain.CategoryBugReport,
				},
				MaxTickets:          10,
				IsAvailable:         true,
				IsOnline:            true,
				AverageResponseTime: 18,
				SatisfactionScore:   4.5,
				CreatedAt:           now,
				UpdatedAt:           now,
			},
			{
				ID:    uuid.NewString(),
				Name:  "Priya Raman",
				Email: "priya.raman@example.com",
				Skills: []domain.TicketCategory{
					domain.CategoryGeneral, domain.CategoryFeatureRequest, domain.CategoryAccount,
				},
				MaxTickets:          12,
				IsAvailable:         true,
				IsOnline:            false,
				AverageResponseTime: 25,
				SatisfactionScore:   4.2,
				CreatedAt:           now,
				UpdatedAt:           now,
			},
		}
		for i := range defaults {
			if err := agents.Create(ctx, &defaults[i]); err != nil {
				return err
			}
		}
		logger.Info("seeded default agents", zap.Int("count", len(defaults)))
	}

	existingRules, err := rules.List(ctx)
	if err != nil {
		return err
	}
	if len(existingRules) == 0 {
		now := time.Now()
		billing := domain.CategoryBilling
		defaults := []domain.EscalationRule{
			{
				ID:                  uuid.NewString(),
				Name:                "Urgent ticket unattended",
				Priority:            domain.TicketPriorityUrgent,
				TriggerAfterMinutes: 15,
				EscalateToLevel:     2,
				NotifyManagement:    true,
				Active:              true,
				CreatedAt:           now,
			},
			{
				ID:                  uuid.NewString(),
				Name:                "High priority aging",
				Priority:            domain.TicketPriorityHigh,
				TriggerAfterMinutes: 120,
				EscalateToLevel:     1,
				Active:              true,
				CreatedAt:           now,
			},
			{
				ID:                  uuid.NewString(),
				Name:                "Billing dispute stale",
				Priority:            domain.TicketPriorityMedium,
				Category:            &billing,
				TriggerAfterMinutes: 480,
				EscalateToLevel:     1,
				Active:              true,
				CreatedAt:           now,
			},
		}
		for i := range defaults {
			if err := rules.Create(ctx, &defaults[i]); err != nil {
				return err
			}
		}
		logger.Info("seeded default escalation rules", zap.Int("count", len(defaults)))
	}

	return nil
}
