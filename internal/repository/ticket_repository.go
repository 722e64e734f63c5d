package repository

import (
	"context"
	"fmt"
	"time"

	"event-reservations/internal/model"
	"event-reservations/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketRepository is the ticket store. Tickets are append-plus-status:
// rows are inserted once and only their status (and checkout reference)
// ever changes afterwards. Serialization of the capacity-sensitive
// write paths is the reservation service's job, not the store's.
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	FindByAccessToken(ctx context.Context, token string) (*model.Ticket, error)
	FindByCheckoutRef(ctx context.Context, ref string) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id int, status model.TicketStatus) (*model.Ticket, error)
	SetCheckoutRef(ctx context.Context, id int, ref string) error
	ListByEvent(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error)
	// SumActiveSeats is the ledger read: seats over PENDING, CONFIRMED
	// and ATTENDED tickets of one event.
	SumActiveSeats(ctx context.Context, eventID int) (int, error)
	// ListExpiredPending returns PENDING tickets created before cutoff,
	// for the hold sweeper.
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, event_id, access_token, holder_name, holder_email, holder_phone,
		seats, status, notes, checkout_ref, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.AccessToken,
		&ticket.HolderName,
		&ticket.HolderEmail,
		&ticket.HolderPhone,
		&ticket.Seats,
		&ticket.Status,
		&ticket.Notes,
		&ticket.CheckoutRef,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
			event_id, access_token, holder_name, holder_email, holder_phone,
			seats, status, notes, checkout_ref
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + ticketColumns

	created, err := scanTicket(r.pool.QueryRow(ctx, query,
		ticket.EventID, ticket.AccessToken, ticket.HolderName, ticket.HolderEmail,
		ticket.HolderPhone, ticket.Seats, ticket.Status, ticket.Notes, ticket.CheckoutRef,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return created, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByAccessToken(ctx context.Context, token string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE access_token = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByCheckoutRef(ctx context.Context, ref string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE checkout_ref = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.TicketStatus) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to update ticket status: %w", err)
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) SetCheckoutRef(ctx context.Context, id int, ref string) error {
	query := `
		UPDATE tickets
		SET checkout_ref = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, ref, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepositoryImpl) ListByEvent(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE event_id = $1
	`
	args := []interface{}{eventID}
	argPos := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(` AND (holder_name ILIKE $%d OR holder_email ILIKE $%d OR COALESCE(holder_phone, '') ILIKE $%d)`,
			argPos, argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) SumActiveSeats(ctx context.Context, eventID int) (int, error) {
	query := `
		SELECT COALESCE(SUM(seats), 0)
		FROM tickets
		WHERE event_id = $1
		  AND status IN ($2, $3, $4)
	`

	var total int
	err := r.pool.QueryRow(ctx, query, eventID,
		model.TicketStatusPending, model.TicketStatusConfirmed, model.TicketStatusAttended,
	).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *TicketRepositoryImpl) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, model.TicketStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}
