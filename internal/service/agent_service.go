package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AgentService manages the agent directory.
type AgentService struct {
	agents repository.AgentRepository
	now    func() time.Time
}

// AgentCreateInput describes agent creation payload.
type AgentCreateInput struct {
	Name              string
	Email             string
	Skills            []domain.TicketCategory
	MaxTickets        int
	IsAvailable       *bool
	IsOnline          *bool
	SatisfactionScore float64
}

// AgentUpdateInput carries partial agent fields; nil means unchanged.
type AgentUpdateInput struct {
	Name              *string
	Email             *string
	Skills            []domain.TicketCategory
	MaxTickets        *int
	IsAvailable       *bool
	IsOnline          *bool
	SatisfactionScore *float64
}

// NewAgentService constructs the service.
func NewAgentService(agents repository.AgentRepository) *AgentService {
	return &AgentService{agents: agents, now: time.Now}
}

// ListAgents returns all directory entries.
func (s *AgentService) ListAgents(ctx context.Context) ([]domain.SupportAgent, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// GetAgent fetches one agent.
func (s *AgentService) GetAgent(ctx context.Context, id string) (*domain.SupportAgent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// CreateAgent registers a new agent.
func (s *AgentService) CreateAgent(ctx context.Context, input AgentCreateInput) (*domain.SupportAgent, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	for _, skill := range input.Skills {
		if !domain.ValidCategory(skill) {
			return nil, apperrors.NewValidationError("unknown skill category", map[string]any{"skill": skill})
		}
	}
	maxTickets := input.MaxTickets
	if maxTickets <= 0 {
		maxTickets = 10
	}

	now := s.now()
	agent := &domain.SupportAgent{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(input.Name),
		Email:             strings.TrimSpace(input.Email),
		Skills:            input.Skills,
		MaxTickets:        maxTickets,
		IsAvailable:       true,
		IsOnline:          false,
		SatisfactionScore: input.SatisfactionScore,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if agent.Skills == nil {
		agent.Skills = []domain.TicketCategory{}
	}
	if input.IsAvailable != nil {
		agent.IsAvailable = *input.IsAvailable
	}
	if input.IsOnline != nil {
		agent.IsOnline = *input.IsOnline
	}

	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// UpdateAgent merges partial fields into the agent record. The load
// counter is not writable here; it moves only through assignment.
func (s *AgentService) UpdateAgent(ctx context.Context, id string, input AgentUpdateInput) (*domain.SupportAgent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		agent.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		agent.Email = strings.TrimSpace(*input.Email)
	}
	if input.Skills != nil {
		for _, skill := range input.Skills {
			if !domain.ValidCategory(skill) {
				return nil, apperrors.NewValidationError("unknown skill category", map[string]any{"skill": skill})
			}
		}
		agent.Skills = input.Skills
	}
	if input.MaxTickets != nil && *input.MaxTickets > 0 {
		agent.MaxTickets = *input.MaxTickets
	}
	if input.IsAvailable != nil {
		agent.IsAvailable = *input.IsAvailable
	}
	if input.IsOnline != nil {
		agent.IsOnline = *input.IsOnline
	}
	if input.SatisfactionScore != nil {
		agent.SatisfactionScore = *input.SatisfactionScore
	}
	agent.UpdatedAt = s.now()

	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// DeleteAgent removes the directory entry. Tickets keep their dangling
// assignee reference and read back as unassigned.
func (s *AgentService) DeleteAgent(ctx context.Context, id string) error {
	if err := s.agents.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
