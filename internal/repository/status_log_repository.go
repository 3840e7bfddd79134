package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// StatusLogRepository records status transitions for audit.
type StatusLogRepository interface {
	Create(ctx context.Context, entry *domain.TicketStatusLog) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusLog, error)
}

type statusLogRepository struct {
	pool *pgxpool.Pool
}

// NewStatusLogRepository builds repository.
func NewStatusLogRepository(pool *pgxpool.Pool) StatusLogRepository {
	return &statusLogRepository{pool: pool}
}

func (r *statusLogRepository) Create(ctx context.Context, entry *domain.TicketStatusLog) error {
	const query = `
        INSERT INTO ticket_status_logs (ticket_id, changed_by, old_status, new_status, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.ChangedBy,
		entry.OldStatus,
		entry.NewStatus,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *statusLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusLog, error) {
	const query = `
        SELECT id, ticket_id, changed_by, old_status, new_status, note, created_at
        FROM ticket_status_logs WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatusLog
	for rows.Next() {
		var entry domain.TicketStatusLog
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.ChangedBy,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Note,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
