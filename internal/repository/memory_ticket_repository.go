package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
)

// memoryTicketRepository keeps tickets and their message threads in
// process memory behind a single mutex. It is the default backend and
// matches the reference deployment.
type memoryTicketRepository struct {
	mu       sync.RWMutex
	tickets  map[string]*domain.Ticket
	order    []string
	messages map[string][]*domain.TicketMessage
}

// NewMemoryTicketRepository builds an empty in-memory ticket store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{
		tickets:  make(map[string]*domain.Ticket),
		messages: make(map[string][]*domain.TicketMessage),
	}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneTicket(ticket)
	r.tickets[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return nil
}

func (r *memoryTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return ErrNotFound
	}
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTicket(ticket), nil
}

func (r *memoryTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, id := range r.order {
		ticket := r.tickets[id]
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.AgentID != nil {
			if ticket.AssignedAgentID == nil || *ticket.AssignedAgentID != *filter.AgentID {
				continue
			}
		}
		result = append(result, *cloneTicket(ticket))
	}
	// Newest-created-first; insertion order breaks ties.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryTicketRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	delete(r.messages, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryTicketRepository) CreateMessage(ctx context.Context, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[msg.TicketID]; !ok {
		return ErrNotFound
	}
	clone := *msg
	r.messages[msg.TicketID] = append(r.messages[msg.TicketID], &clone)
	return nil
}

func (r *memoryTicketRepository) ListMessages(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread := r.messages[ticketID]
	result := make([]domain.TicketMessage, 0, len(thread))
	for _, msg := range thread {
		result = append(result, *msg)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func cloneTicket(ticket *domain.Ticket) *domain.Ticket {
	clone := *ticket
	clone.AssignedAgentID = clonePtr(ticket.AssignedAgentID)
	clone.SuggestedCategory = clonePtr(ticket.SuggestedCategory)
	clone.SuggestedPriority = clonePtr(ticket.SuggestedPriority)
	clone.AISummary = clonePtr(ticket.AISummary)
	clone.SuggestedResponse = clonePtr(ticket.SuggestedResponse)
	clone.EscalationReason = clonePtr(ticket.EscalationReason)
	clone.FirstResponseAt = clonePtr(ticket.FirstResponseAt)
	clone.ResolvedAt = clonePtr(ticket.ResolvedAt)
	if ticket.Tags != nil {
		clone.Tags = append([]string(nil), ticket.Tags...)
	}
	return &clone
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
