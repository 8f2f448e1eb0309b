package mocks

import (
	"context"

	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepo struct {
	mock.Mock
	domain.TicketRepository
}

func (m *MockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepo) GetById(ctx context.Context, id int) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) GetByMobile(
	ctx context.Context,
	mobile string,
	pagination domain.Pagination) ([]*domain.Ticket, *domain.Metadata, error) {

	args := m.Called(ctx, mobile, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.Ticket), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockTicketRepo) CancelSeats(
	ctx context.Context,
	ticketID int,
	seats []domain.SeatCoordinate) (*domain.Cancellation, error) {

	args := m.Called(ctx, ticketID, seats)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cancellation), args.Error(1)
}

func (m *MockTicketRepo) GetHeldSeats(ctx context.Context, showID int) ([]domain.SeatCoordinate, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatCoordinate), args.Error(1)
}

func (m *MockTicketRepo) GetActiveSeatsByShow(ctx context.Context, showID int) ([]domain.TicketSeat, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketSeat), args.Error(1)
}
