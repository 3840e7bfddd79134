package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// EscalationRepository manages append-only escalation records.
type EscalationRepository interface {
	Create(ctx context.Context, escalation *domain.TicketEscalation) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEscalation, error)
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository builds repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

func (r *escalationRepository) Create(ctx context.Context, escalation *domain.TicketEscalation) error {
	const query = `
        INSERT INTO ticket_escalations (ticket_id, from_role, to_role, reason, new_priority, cc_units)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, escalated_at`
	return r.pool.QueryRow(ctx, query,
		escalation.TicketID,
		escalation.FromRole,
		escalation.ToRole,
		escalation.Reason,
		escalation.NewPriority,
		escalation.CCUnits,
	).Scan(&escalation.ID, &escalation.EscalatedAt)
}

func (r *escalationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketEscalation, error) {
	const query = `
        SELECT id, ticket_id, from_role, to_role, reason, new_priority, cc_units, escalated_at
        FROM ticket_escalations WHERE ticket_id=$1 ORDER BY escalated_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketEscalation
	for rows.Next() {
		var escalation domain.TicketEscalation
		if err := rows.Scan(
			&escalation.ID,
			&escalation.TicketID,
			&escalation.FromRole,
			&escalation.ToRole,
			&escalation.Reason,
			&escalation.NewPriority,
			&escalation.CCUnits,
			&escalation.EscalatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, escalation)
	}
	return result, rows.Err()
}
