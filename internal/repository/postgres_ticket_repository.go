package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository instantiates the pgx-backed ticket store.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

const ticketColumns = `id, subject, description, category, priority, status,
       customer_id, customer_email, customer_name, assigned_agent_id,
       suggested_category, suggested_priority, ai_summary, suggested_response,
       escalation_reason, escalation_level, sla_deadline, first_response_at,
       resolved_at, tags, created_at, updated_at`

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, subject, description, category, priority, status,
            customer_id, customer_email, customer_name, assigned_agent_id,
            suggested_category, suggested_priority, ai_summary, suggested_response,
            escalation_reason, escalation_level, sla_deadline, first_response_at,
            resolved_at, tags, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.CustomerID,
		ticket.CustomerEmail,
		ticket.CustomerName,
		ticket.AssignedAgentID,
		ticket.SuggestedCategory,
		ticket.SuggestedPriority,
		ticket.AISummary,
		ticket.SuggestedResponse,
		ticket.EscalationReason,
		ticket.EscalationLevel,
		ticket.SLADeadline,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.Tags,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *postgresTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET category=$1, priority=$2, status=$3, assigned_agent_id=$4,
            suggested_category=$5, suggested_priority=$6, ai_summary=$7,
            suggested_response=$8, escalation_reason=$9, escalation_level=$10,
            first_response_at=$11, resolved_at=$12, tags=$13, updated_at=$14
        WHERE id=$15`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedAgentID,
		ticket.SuggestedCategory,
		ticket.SuggestedPriority,
		ticket.AISummary,
		ticket.SuggestedResponse,
		ticket.EscalationReason,
		ticket.EscalationLevel,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.Tags,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(ticketFields(&ticket)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *postgresTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("assigned_agent_id=$%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(ticketFields(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *postgresTicketRepository) Delete(ctx context.Context, id string) error {
	// ticket_messages cascades via its foreign key.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresTicketRepository) CreateMessage(ctx context.Context, msg *domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (id, ticket_id, sender_id, sender_type, content, is_internal, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.TicketID,
		msg.SenderID,
		msg.SenderType,
		msg.Content,
		msg.IsInternal,
		msg.CreatedAt,
	)
	return err
}

func (r *postgresTicketRepository) ListMessages(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_id, sender_type, content, is_internal, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.SenderType,
			&msg.Content,
			&msg.IsInternal,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func ticketFields(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CustomerID,
		&ticket.CustomerEmail,
		&ticket.CustomerName,
		&ticket.AssignedAgentID,
		&ticket.SuggestedCategory,
		&ticket.SuggestedPriority,
		&ticket.AISummary,
		&ticket.SuggestedResponse,
		&ticket.EscalationReason,
		&ticket.EscalationLevel,
		&ticket.SLADeadline,
		&ticket.FirstResponseAt,
		&ticket.ResolvedAt,
		&ticket.Tags,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
}
