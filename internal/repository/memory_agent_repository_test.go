package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func newAgent(id string, skills []domain.TicketCategory, load, maxTickets int) *domain.SupportAgent {
	return &domain.SupportAgent{
		ID:                 id,
		Name:               "agent " + id,
		Email:              id + "@example.com",
		Skills:             skills,
		MaxTickets:         maxTickets,
		CurrentTicketCount: load,
		IsAvailable:        true,
		IsOnline:           true,
	}
}

func TestFindAvailableForCategoryFilters(t *testing.T) {
	repo := NewMemoryAgentRepository()
	ctx := context.Background()
	billing := []domain.TicketCategory{domain.CategoryBilling}

	offline := newAgent("offline", billing, 0, 10)
	offline.IsOnline = false
	require.NoError(t, repo.Create(ctx, offline))

	unavailable := newAgent("unavailable", billing, 0, 10)
	unavailable.IsAvailable = false
	require.NoError(t, repo.Create(ctx, unavailable))

	full := newAgent("full", billing, 10, 10)
	require.NoError(t, repo.Create(ctx, full))

	wrongSkill := newAgent("wrong-skill", []domain.TicketCategory{domain.CategoryTechnical}, 0, 10)
	require.NoError(t, repo.Create(ctx, wrongSkill))

	eligible := newAgent("eligible", billing, 2, 10)
	require.NoError(t, repo.Create(ctx, eligible))

	pool, err := repo.FindAvailableForCategory(ctx, domain.CategoryBilling)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "eligible", pool[0].ID)
}

func TestFindAvailableForCategorySortsByLoadRatio(t *testing.T) {
	repo := NewMemoryAgentRepository()
	ctx := context.Background()
	billing := []domain.TicketCategory{domain.CategoryBilling}

	require.NoError(t, repo.Create(ctx, newAgent("busy", billing, 8, 10)))
	require.NoError(t, repo.Create(ctx, newAgent("idle", billing, 1, 10)))
	require.NoError(t, repo.Create(ctx, newAgent("medium", billing, 5, 10)))

	pool, err := repo.FindAvailableForCategory(ctx, domain.CategoryBilling)
	require.NoError(t, err)
	require.Len(t, pool, 3)
	assert.Equal(t, "idle", pool[0].ID)
	assert.Equal(t, "medium", pool[1].ID)
	assert.Equal(t, "busy", pool[2].ID)
}

func TestAdjustLoadClampsAtZero(t *testing.T) {
	repo := NewMemoryAgentRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAgent("a1", nil, 1, 10)))
	require.NoError(t, repo.AdjustLoad(ctx, "a1", -5))

	agent, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, agent.CurrentTicketCount)
}

func TestAdjustLoadNotFound(t *testing.T) {
	repo := NewMemoryAgentRepository()
	assert.ErrorIs(t, repo.AdjustLoad(context.Background(), "missing", 1), ErrNotFound)
}
