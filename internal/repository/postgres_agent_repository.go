package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

type postgresAgentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAgentRepository instantiates the pgx-backed agent directory.
func NewPostgresAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &postgresAgentRepository{pool: pool}
}

const agentColumns = `id, name, email, skills, max_tickets, current_ticket_count,
       is_available, is_online, avg_response_time, satisfaction_score,
       created_at, updated_at`

func (r *postgresAgentRepository) Create(ctx context.Context, agent *domain.SupportAgent) error {
	const query = `
        INSERT INTO support_agents (id, name, email, skills, max_tickets, current_ticket_count,
            is_available, is_online, avg_response_time, satisfaction_score, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		agent.ID,
		agent.Name,
		agent.Email,
		skillStrings(agent.Skills),
		agent.MaxTickets,
		agent.CurrentTicketCount,
		agent.IsAvailable,
		agent.IsOnline,
		agent.AverageResponseTime,
		agent.SatisfactionScore,
		agent.CreatedAt,
		agent.UpdatedAt,
	)
	return err
}

func (r *postgresAgentRepository) Update(ctx context.Context, agent *domain.SupportAgent) error {
	const query = `
        UPDATE support_agents SET name=$1, email=$2, skills=$3, max_tickets=$4,
            is_available=$5, is_online=$6, avg_response_time=$7,
            satisfaction_score=$8, updated_at=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		agent.Name,
		agent.Email,
		skillStrings(agent.Skills),
		agent.MaxTickets,
		agent.IsAvailable,
		agent.IsOnline,
		agent.AverageResponseTime,
		agent.SatisfactionScore,
		agent.UpdatedAt,
		agent.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresAgentRepository) GetByID(ctx context.Context, id string) (*domain.SupportAgent, error) {
	const query = `SELECT ` + agentColumns + ` FROM support_agents WHERE id=$1`
	agent, err := scanAgentRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return agent, nil
}

func (r *postgresAgentRepository) List(ctx context.Context) ([]domain.SupportAgent, error) {
	const query = `SELECT ` + agentColumns + ` FROM support_agents ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *postgresAgentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM support_agents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresAgentRepository) FindAvailableForCategory(ctx context.Context, category domain.TicketCategory) ([]domain.SupportAgent, error) {
	const query = `SELECT ` + agentColumns + `
        FROM support_agents
        WHERE is_available AND is_online AND $1 = ANY(skills)
          AND current_ticket_count < max_tickets
        ORDER BY current_ticket_count::float / NULLIF(max_tickets, 0) ASC`
	rows, err := r.pool.Query(ctx, query, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *postgresAgentRepository) AdjustLoad(ctx context.Context, id string, delta int) error {
	const query = `
        UPDATE support_agents
        SET current_ticket_count = GREATEST(0, current_ticket_count + $1), updated_at = NOW()
        WHERE id = $2`
	cmd, err := r.pool.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAgents(rows pgx.Rows) ([]domain.SupportAgent, error) {
	var result []domain.SupportAgent
	for rows.Next() {
		agent, err := scanAgentRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *agent)
	}
	return result, rows.Err()
}

func scanAgentRow(row pgx.Row) (*domain.SupportAgent, error) {
	var agent domain.SupportAgent
	var skills []string
	if err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&skills,
		&agent.MaxTickets,
		&agent.CurrentTicketCount,
		&agent.IsAvailable,
		&agent.IsOnline,
		&agent.AverageResponseTime,
		&agent.SatisfactionScore,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	agent.Skills = make([]domain.TicketCategory, 0, len(skills))
	for _, skill := range skills {
		agent.Skills = append(agent.Skills, domain.TicketCategory(skill))
	}
	return &agent, nil
}

func skillStrings(skills []domain.TicketCategory) []string {
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		result = append(result, string(skill))
	}
	return result
}
