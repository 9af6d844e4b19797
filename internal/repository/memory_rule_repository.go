package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
)

// memoryRuleRepository keeps escalation rules in insertion order, which
// is also their evaluation order.
type memoryRuleRepository struct {
	mu    sync.RWMutex
	rules []*domain.EscalationRule
}

// NewMemoryRuleRepository builds an empty in-memory rule set.
func NewMemoryRuleRepository() RuleRepository {
	return &memoryRuleRepository{}
}

func (r *memoryRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneRule(rule)
	r.rules = append(r.rules, clone)
	return nil
}

func (r *memoryRuleRepository) List(ctx context.Context) ([]domain.EscalationRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.EscalationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		result = append(result, *cloneRule(rule))
	}
	return result, nil
}

func (r *memoryRuleRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.EscalationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		if !rule.Active {
			continue
		}
		result = append(result, *cloneRule(rule))
	}
	return result, nil
}

func cloneRule(rule *domain.EscalationRule) *domain.EscalationRule {
	clone := *rule
	clone.Category = clonePtr(rule.Category)
	return &clone
}
