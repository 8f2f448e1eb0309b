package mocks

import (
	"context"
	"time"

	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowRepo struct {
	mock.Mock
	domain.ShowRepository
}

func (m *MockShowRepo) GetMovies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockShowRepo) GetDatesByMovie(ctx context.Context, movie string) ([]time.Time, error) {
	args := m.Called(ctx, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockShowRepo) GetShowsByMovieAndDate(ctx context.Context, movie string, date time.Time) ([]domain.ShowDetails, error) {
	args := m.Called(ctx, movie, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShowDetails), args.Error(1)
}

func (m *MockShowRepo) GetShowById(ctx context.Context, id int) (*domain.ShowDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowDetails), args.Error(1)
}
