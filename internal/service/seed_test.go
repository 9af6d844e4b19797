package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

func TestSeedDefaultsPopulatesEmptyStores(t *testing.T) {
	agentRepo := repository.NewMemoryAgentRepository()
	ruleRepo := repository.NewMemoryRuleRepository()
	ctx := context.Background()

	require.NoError(t, SeedDefaults(ctx, agentRepo, ruleRepo, zap.NewNop()))

	agents, err := agentRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 3)

	rules, err := ruleRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "Urgent ticket unattended", rules[0].Name)
	for _, rule := range rules {
		assert.True(t, rule.Active)
	}
}

func TestSeedDefaultsSkipsNonEmptyStores(t *testing.T) {
	agentRepo := repository.NewMemoryAgentRepository()
	ruleRepo := repository.NewMemoryRuleRepository()
	ctx := context.Background()

	require.NoError(t, agentRepo.Create(ctx, &domain.SupportAgent{ID: "existing", Name: "Existing"}))
	require.NoError(t, ruleRepo.Create(ctx, &domain.EscalationRule{ID: "existing", Name: "Existing", Active: true}))

	require.NoError(t, SeedDefaults(ctx, agentRepo, ruleRepo, zap.NewNop()))

	agents, err := agentRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	rules, err := ruleRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
