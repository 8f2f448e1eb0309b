package repository

import (
	"context"
	"errors"
	"slices"

	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

// Create inserts the ticket and all of its seats in one transaction. The
// unique index on ticket_seats (show_id, seat_row, seat_col) decides which of
// two concurrent overlapping bookings wins; the loser's transaction is rolled
// back and reported as domain.ErrSeatUnavailable. There is no read-then-write
// availability check here on purpose.
func (p *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO tickets (reference, show_id, customer_name, customer_mobile, customer_email, status, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			ticket.Reference,
			ticket.ShowID,
			ticket.CustomerName,
			ticket.CustomerMobile,
			ticket.CustomerEmail,
			ticket.Status,
			ticket.Total).Scan(&ticket.ID, &ticket.CreatedAt)

		if err != nil {
			return err
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"ticket_seats"},
			[]string{"ticket_id", "show_id", "seat_row", "seat_col", "price"},
			pgx.CopyFromRows(seatCopyRows(ticket)),
		)
		if err != nil {
			return mapSeatInsertError(err)
		}

		seats, err := scanTicketSeats(ctx, tx, ticket.ID)
		if err != nil {
			return err
		}

		ticket.Seats = seats

		return nil
	})
}

// seatCopyRows builds the bulk-insert rows in (row, col) order. Ordered
// inserts make two overlapping bookings collide on their first common seat,
// so the loser gets a unique violation instead of deadlocking against the
// winner when the requests named the seats in opposite orders.
func seatCopyRows(ticket *domain.Ticket) [][]any {
	seats := slices.Clone(ticket.Seats)
	slices.SortFunc(seats, func(a, b domain.TicketSeat) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Col - b.Col
	})

	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{
			ticket.ID,
			ticket.ShowID,
			seat.Row,
			seat.Col,
			seat.Price,
		})
	}

	return rows
}

// mapSeatInsertError translates the ways a concurrent overlapping booking can
// abort the seat insert into ErrSeatUnavailable. A deadlock abort can still
// happen when the overlapping transaction was already in flight, and means
// the same thing: another booking holds one of the seats.
func mapSeatInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.DeadlockDetected:
			return domain.ErrSeatUnavailable
		}
	}

	return err
}

func (p *PostgresTicketRepository) GetById(ctx context.Context, id int) (*domain.Ticket, error) {
	query := `
		SELECT id, reference, show_id, customer_name, customer_mobile, customer_email, status, total, created_at
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	seats, err := scanTicketSeats(ctx, p.db, ticket.ID)
	if err != nil {
		return nil, err
	}

	ticket.Seats = seats

	return ticket, nil
}

func (p *PostgresTicketRepository) GetByMobile(
	ctx context.Context,
	mobile string,
	pagination domain.Pagination) ([]*domain.Ticket, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			id, reference, show_id, customer_name, customer_mobile, customer_email, status, total, created_at
		FROM tickets
		WHERE customer_mobile = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, mobile, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	totalRecords := 0

	for rows.Next() {
		var ticket domain.Ticket

		err := rows.Scan(
			&totalRecords,
			&ticket.ID,
			&ticket.Reference,
			&ticket.ShowID,
			&ticket.CustomerName,
			&ticket.CustomerMobile,
			&ticket.CustomerEmail,
			&ticket.Status,
			&ticket.Total,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		tickets = append(tickets, &ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	for _, ticket := range tickets {
		seats, err := scanTicketSeats(ctx, p.db, ticket.ID)
		if err != nil {
			return nil, nil, err
		}

		ticket.Seats = seats
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return tickets, metadata, nil
}

// CancelSeats releases seats of a booked ticket atomically. The ticket row is
// locked first, so concurrent cancellations of the same ticket serialize
// behind each other; deleting a seat row immediately frees that coordinate
// for rebooking.
func (p *PostgresTicketRepository) CancelSeats(
	ctx context.Context,
	ticketID int,
	seats []domain.SeatCoordinate) (*domain.Cancellation, error) {

	var cancellation *domain.Cancellation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, reference, show_id, customer_name, customer_mobile, customer_email, status, total, created_at
			FROM tickets
			WHERE id = $1
			FOR UPDATE
		`

		ticket, err := scanTicket(tx.QueryRow(ctx, query, ticketID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTicketNotFound
			}

			return err
		}

		if ticket.Status == domain.TicketStatusCancelled {
			return domain.ErrTicketAlreadyCancelled
		}

		current, err := scanTicketSeats(ctx, tx, ticketID)
		if err != nil {
			return err
		}

		targets, remaining, err := resolveCancellationTargets(current, seats)
		if err != nil {
			return err
		}

		refund := decimal.Zero

		for _, seat := range targets {
			refund = refund.Add(seat.Price)

			_, err = tx.Exec(ctx, `DELETE FROM ticket_seats WHERE id = $1`, seat.ID)
			if err != nil {
				return err
			}
		}

		newTotal := decimal.Zero
		for _, seat := range remaining {
			newTotal = newTotal.Add(seat.Price)
		}

		status := domain.TicketStatusBooked
		if len(remaining) == 0 {
			status = domain.TicketStatusCancelled
		}

		_, err = tx.Exec(ctx, `UPDATE tickets SET status = $1, total = $2 WHERE id = $3`, status, newTotal, ticketID)
		if err != nil {
			return err
		}

		ticket.Status = status
		ticket.Total = newTotal
		ticket.Seats = remaining

		cancellation = &domain.Cancellation{
			Refund:         refund,
			CancelledSeats: targets,
			Ticket:         ticket,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return cancellation, nil
}

// resolveCancellationTargets splits a ticket's seats into the ones being
// released and the ones kept. A nil request releases everything; an explicit
// coordinate that is not on the ticket fails the whole cancellation.
func resolveCancellationTargets(
	current []domain.TicketSeat,
	requested []domain.SeatCoordinate) (targets, remaining []domain.TicketSeat, err error) {

	if requested == nil {
		return current, nil, nil
	}

	wanted := make(map[domain.SeatCoordinate]bool, len(requested))
	for _, coordinate := range requested {
		wanted[coordinate] = true
	}

	byCoordinate := make(map[domain.SeatCoordinate]bool, len(current))
	for _, seat := range current {
		byCoordinate[seat.Coordinate()] = true
	}

	for coordinate := range wanted {
		if !byCoordinate[coordinate] {
			return nil, nil, domain.ErrSeatNotOnTicket
		}
	}

	for _, seat := range current {
		if wanted[seat.Coordinate()] {
			targets = append(targets, seat)
		} else {
			remaining = append(remaining, seat)
		}
	}

	return targets, remaining, nil
}

func (p *PostgresTicketRepository) GetHeldSeats(ctx context.Context, showID int) ([]domain.SeatCoordinate, error) {
	query := `
		SELECT ts.seat_row, ts.seat_col
		FROM ticket_seats ts
		JOIN tickets t ON ts.ticket_id = t.id
		WHERE ts.show_id = $1 AND t.status = 'BOOKED'
		ORDER BY ts.seat_row, ts.seat_col
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	held := make([]domain.SeatCoordinate, 0)

	for rows.Next() {
		var coordinate domain.SeatCoordinate

		err = rows.Scan(&coordinate.Row, &coordinate.Col)
		if err != nil {
			return nil, err
		}

		held = append(held, coordinate)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return held, nil
}

func (p *PostgresTicketRepository) GetActiveSeatsByShow(ctx context.Context, showID int) ([]domain.TicketSeat, error) {
	query := `
		SELECT ts.id, ts.ticket_id, ts.show_id, ts.seat_row, ts.seat_col, ts.price
		FROM ticket_seats ts
		JOIN tickets t ON ts.ticket_id = t.id
		WHERE ts.show_id = $1 AND t.status = 'BOOKED'
		ORDER BY ts.seat_row, ts.seat_col
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSeats(rows)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanTicketSeats(ctx context.Context, q queryer, ticketID int) ([]domain.TicketSeat, error) {
	query := `
		SELECT id, ticket_id, show_id, seat_row, seat_col, price
		FROM ticket_seats
		WHERE ticket_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSeats(rows)
}

func collectSeats(rows pgx.Rows) ([]domain.TicketSeat, error) {
	seats := make([]domain.TicketSeat, 0)

	for rows.Next() {
		var seat domain.TicketSeat

		err := rows.Scan(
			&seat.ID,
			&seat.TicketID,
			&seat.ShowID,
			&seat.Row,
			&seat.Col,
			&seat.Price,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket

	err := row.Scan(
		&ticket.ID,
		&ticket.Reference,
		&ticket.ShowID,
		&ticket.CustomerName,
		&ticket.CustomerMobile,
		&ticket.CustomerEmail,
		&ticket.Status,
		&ticket.Total,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &ticket, nil
}
