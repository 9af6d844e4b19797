package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const (
	statsCacheKey = "support-desk:stats"
	statsCacheTTL = 10 * time.Second
)

// StatsService derives dashboard counters from current ticket and agent
// state. The scan is read-only and safe to run concurrently with any
// other operation. A short-lived redis snapshot keeps dashboards from
// hammering the stores; the cache is skipped when redis is unavailable.
type StatsService struct {
	tickets repository.TicketRepository
	agents  repository.AgentRepository
	cache   *persistence.Redis
	logger  *zap.Logger
	now     func() time.Time
}

// StatsDependencies bundles collaborators for the aggregator.
type StatsDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	Cache      *persistence.Redis
	Logger     *zap.Logger
}

// NewStatsService constructs the aggregator.
func NewStatsService(deps StatsDependencies) *StatsService {
	return &StatsService{
		tickets: deps.TicketRepo,
		agents:  deps.AgentRepo,
		cache:   deps.Cache,
		logger:  deps.Logger,
		now:     time.Now,
	}
}

// ComputeStats scans tickets and agents and returns the counters.
func (s *StatsService) ComputeStats(ctx context.Context) (*domain.Stats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	stats := &domain.Stats{
		TotalTickets:      len(tickets),
		CategoryBreakdown: make(map[domain.TicketCategory]int),
		PriorityBreakdown: make(map[domain.TicketPriority]int),
		TotalAgents:       len(agents),
	}

	var responseTotal time.Duration
	var responded int
	for i := range tickets {
		ticket := &tickets[i]
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.OpenTickets++
		case domain.TicketStatusInProgress:
			stats.InProgressTickets++
		case domain.TicketStatusEscalated:
			stats.EscalatedTickets++
		}
		if ticket.ResolvedAt != nil && now.Sub(*ticket.ResolvedAt) < 24*time.Hour {
			stats.ResolvedLast24h++
		}
		if ticket.FirstResponseAt != nil {
			responseTotal += ticket.FirstResponseAt.Sub(ticket.CreatedAt)
			responded++
		}
		stats.CategoryBreakdown[ticket.Category]++
		stats.PriorityBreakdown[ticket.Priority]++
		if ticket.SLADeadline.Before(now) && !ticket.Status.IsTerminal() {
			stats.SLABreaches++
		}
	}
	if responded > 0 {
		stats.AvgResponseMinutes = responseTotal.Minutes() / float64(responded)
	}

	for i := range agents {
		if agents[i].IsOnline {
			stats.OnlineAgents++
		}
	}

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *domain.Stats {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *domain.Stats) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
