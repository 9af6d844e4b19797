package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
)

type memoryAgentRepository struct {
	mu     sync.RWMutex
	agents map[string]*domain.SupportAgent
	order  []string
}

// NewMemoryAgentRepository builds an empty in-memory agent directory.
func NewMemoryAgentRepository() AgentRepository {
	return &memoryAgentRepository{
		agents: make(map[string]*domain.SupportAgent),
	}
}

func (r *memoryAgentRepository) Create(ctx context.Context, agent *domain.SupportAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneAgent(agent)
	r.agents[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return nil
}

func (r *memoryAgentRepository) Update(ctx context.Context, agent *domain.SupportAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agent.ID]; !ok {
		return ErrNotFound
	}
	r.agents[agent.ID] = cloneAgent(agent)
	return nil
}

func (r *memoryAgentRepository) GetByID(ctx context.Context, id string) (*domain.SupportAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAgent(agent), nil
}

func (r *memoryAgentRepository) List(ctx context.Context) ([]domain.SupportAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.SupportAgent, 0, len(r.agents))
	for _, id := range r.order {
		result = append(result, *cloneAgent(r.agents[id]))
	}
	return result, nil
}

func (r *memoryAgentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return ErrNotFound
	}
	delete(r.agents, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryAgentRepository) FindAvailableForCategory(ctx context.Context, category domain.TicketCategory) ([]domain.SupportAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.SupportAgent, 0)
	for _, id := range r.order {
		agent := r.agents[id]
		if !agent.IsAvailable || !agent.IsOnline {
			continue
		}
		if !agent.CanHandle(category) || !agent.HasCapacity() {
			continue
		}
		result = append(result, *cloneAgent(agent))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoadRatio() < result[j].LoadRatio()
	})
	return result, nil
}

// AdjustLoad applies a load delta under the directory lock so two
// concurrent assignments to the same agent cannot race past each other.
// The count is clamped at zero on the low end.
func (r *memoryAgentRepository) AdjustLoad(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[id]
	if !ok {
		return ErrNotFound
	}
	agent.CurrentTicketCount += delta
	if agent.CurrentTicketCount < 0 {
		agent.CurrentTicketCount = 0
	}
	return nil
}

func cloneAgent(agent *domain.SupportAgent) *domain.SupportAgent {
	clone := *agent
	if agent.Skills != nil {
		clone.Skills = append([]domain.TicketCategory(nil), agent.Skills...)
	}
	return &clone
}
