package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

func newAgentServiceForTest() (*AgentService, repository.AgentRepository) {
	repo := repository.NewMemoryAgentRepository()
	svc := NewAgentService(repo)
	svc.now = fixedClock(testClock)
	return svc, repo
}

func TestCreateAgentDefaults(t *testing.T) {
	svc, _ := newAgentServiceForTest()

	agent, err := svc.CreateAgent(context.Background(), AgentCreateInput{
		Name:  "Sam Field",
		Email: "sam@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, 10, agent.MaxTickets)
	assert.True(t, agent.IsAvailable)
	assert.False(t, agent.IsOnline)
	assert.Equal(t, 0, agent.CurrentTicketCount)
	assert.NotNil(t, agent.Skills)
}

func TestCreateAgentValidation(t *testing.T) {
	svc, _ := newAgentServiceForTest()
	ctx := context.Background()

	_, err := svc.CreateAgent(ctx, AgentCreateInput{Name: " ", Email: "x@example.com"})
	assertHTTPStatus(t, err, 400)

	_, err = svc.CreateAgent(ctx, AgentCreateInput{
		Name:   "Sam",
		Email:  "sam@example.com",
		Skills: []domain.TicketCategory{"juggling"},
	})
	assertHTTPStatus(t, err, 400)
}

func TestUpdateAgentPartial(t *testing.T) {
	svc, repo := newAgentServiceForTest()
	ctx := context.Background()

	created, err := svc.CreateAgent(ctx, AgentCreateInput{
		Name:   "Sam Field",
		Email:  "sam@example.com",
		Skills: []domain.TicketCategory{domain.CategoryBilling},
	})
	require.NoError(t, err)

	online := true
	updated, err := svc.UpdateAgent(ctx, created.ID, AgentUpdateInput{IsOnline: &online})
	require.NoError(t, err)

	assert.True(t, updated.IsOnline)
	assert.Equal(t, "Sam Field", updated.Name)
	assert.Equal(t, []domain.TicketCategory{domain.CategoryBilling}, updated.Skills)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOnline)
}

func TestUpdateAgentNotFound(t *testing.T) {
	svc, _ := newAgentServiceForTest()
	name := "New Name"
	_, err := svc.UpdateAgent(context.Background(), "missing", AgentUpdateInput{Name: &name})
	assertHTTPStatus(t, err, 404)
}

func TestDeleteAgent(t *testing.T) {
	svc, repo := newAgentServiceForTest()
	ctx := context.Background()

	created, err := svc.CreateAgent(ctx, AgentCreateInput{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAgent(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assertHTTPStatus(t, svc.DeleteAgent(ctx, created.ID), 404)
}
