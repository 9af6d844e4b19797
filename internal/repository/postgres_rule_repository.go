package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

type postgresRuleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRuleRepository instantiates the pgx-backed rule set.
func NewPostgresRuleRepository(pool *pgxpool.Pool) RuleRepository {
	return &postgresRuleRepository{pool: pool}
}

const ruleColumns = `id, name, priority, category, trigger_after_minutes,
       escalate_to_level, notify_management, active, created_at`

func (r *postgresRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        INSERT INTO escalation_rules (id, name, priority, category, trigger_after_minutes,
            escalate_to_level, notify_management, active, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Priority,
		rule.Category,
		rule.TriggerAfterMinutes,
		rule.EscalateToLevel,
		rule.NotifyManagement,
		rule.Active,
		rule.CreatedAt,
	)
	return err
}

func (r *postgresRuleRepository) List(ctx context.Context) ([]domain.EscalationRule, error) {
	const query = `SELECT ` + ruleColumns + ` FROM escalation_rules ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func (r *postgresRuleRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	const query = `SELECT ` + ruleColumns + ` FROM escalation_rules WHERE active ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

func scanRules(rows pgx.Rows) ([]domain.EscalationRule, error) {
	var result []domain.EscalationRule
	for rows.Next() {
		var rule domain.EscalationRule
		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Priority,
			&rule.Category,
			&rule.TriggerAfterMinutes,
			&rule.EscalateToLevel,
			&rule.NotifyManagement,
			&rule.Active,
			&rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}
