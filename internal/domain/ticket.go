package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "BOOKED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// Ticket is a single atomic reservation of one or more seats for a show.
// Total always equals the sum of the remaining active seats' prices; it is
// recomputed inside the same transaction that removes seats.
type Ticket struct {
	ID             int
	Reference      string
	ShowID         int
	CustomerName   string
	CustomerMobile string
	CustomerEmail  *string
	Status         TicketStatus
	Total          decimal.Decimal
	CreatedAt      time.Time
	Seats          []TicketSeat
}

// TicketSeat is one reserved seat of a ticket. ShowID is denormalized so
// availability lookups don't have to join through tickets. A TicketSeat is
// deleted when that seat is cancelled; it is never mutated otherwise.
type TicketSeat struct {
	ID       int
	TicketID int
	ShowID   int
	Row      int
	Col      int
	Price    decimal.Decimal
}

func (s TicketSeat) Coordinate() SeatCoordinate {
	return SeatCoordinate{Row: s.Row, Col: s.Col}
}

// SeatTotal sums the prices of the ticket's seats. It must equal Total for
// any ticket read back from the store.
func (t *Ticket) SeatTotal() decimal.Decimal {
	total := decimal.Zero

	for _, seat := range t.Seats {
		total = total.Add(seat.Price)
	}

	return total
}

// NewTicketReference generates the public booking reference handed to the
// customer, e.g. "B1A2B3C4". Internal ticket IDs stay internal.
func NewTicketReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")

	return fmt.Sprintf("B%s", strings.ToUpper(id[:8]))
}

// Cancellation is the outcome of a (partial) cancellation: the refund owed
// to the customer, the seats that were released, and the ticket's
// post-cancellation state.
type Cancellation struct {
	Refund         decimal.Decimal
	CancelledSeats []TicketSeat
	Ticket         *Ticket
}

type TicketRepository interface {
	// Create reserves every seat of the ticket in one transaction, or none
	// of them. It returns ErrSeatUnavailable when any requested seat is
	// already held for the show.
	Create(ctx context.Context, ticket *Ticket) error

	GetById(ctx context.Context, id int) (*Ticket, error)
	GetByMobile(ctx context.Context, mobile string, pagination Pagination) ([]*Ticket, *Metadata, error)

	// CancelSeats releases the given seats of a ticket and recomputes its
	// total, marking the ticket cancelled once no seats remain. A nil seat
	// slice cancels the whole ticket.
	CancelSeats(ctx context.Context, ticketID int, seats []SeatCoordinate) (*Cancellation, error)

	GetHeldSeats(ctx context.Context, showID int) ([]SeatCoordinate, error)
	GetActiveSeatsByShow(ctx context.Context, showID int) ([]TicketSeat, error)
}
