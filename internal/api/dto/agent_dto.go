package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Skills            []domain.TicketCategory `json:"skills"`
	MaxTickets        int                     `json:"maxTickets"`
	IsAvailable       *bool                   `json:"isAvailable"`
	IsOnline          *bool                   `json:"isOnline"`
	SatisfactionScore float64                 `json:"satisfactionScore"`
}

// UpdateAgentRequest carries partial agent fields.
type UpdateAgentRequest struct {
	Name              *string                 `json:"name"`
	Email             *string                 `json:"email"`
	Skills            []domain.TicketCategory `json:"skills"`
	MaxTickets        *int                    `json:"maxTickets"`
	IsAvailable       *bool                   `json:"isAvailable"`
	IsOnline          *bool                   `json:"isOnline"`
	SatisfactionScore *float64                `json:"satisfactionScore"`
}

// AgentResponse is the agent wire representation.
type AgentResponse struct {
	ID                  string                  `json:"id"`
	Name                string                  `json:"name"`
	Email               string                  `json:"email"`
	Skills              []domain.TicketCategory `json:"skills"`
	MaxTickets          int                     `json:"maxTickets"`
	CurrentTicketCount  int                     `json:"currentTicketCount"`
	IsAvailable         bool                    `json:"isAvailable"`
	IsOnline            bool                    `json:"isOnline"`
	AverageResponseTime float64                 `json:"averageResponseTime"`
	SatisfactionScore   float64                 `json:"satisfactionScore"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

// TokenRequest exchanges the admin key for a bearer token.
type TokenRequest struct {
	Key string `json:"key"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
