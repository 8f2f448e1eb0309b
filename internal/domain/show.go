package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Show is a screening of a screen's movie at a point in time. Shows are
// immutable after creation.
type Show struct {
	ID        int
	ScreenID  int
	StartTime time.Time
	BasePrice decimal.Decimal
}

// ShowDetails joins a show with its screen so callers can build the seat
// grid without a second lookup.
type ShowDetails struct {
	Show
	ScreenName string
	Rows       int
	Cols       int
}

func (d ShowDetails) Grid() SeatGrid {
	return NewSeatGrid(Screen{ID: d.ScreenID, Name: d.ScreenName, Rows: d.Rows, Cols: d.Cols})
}

type ShowRepository interface {
	GetMovies(ctx context.Context) ([]string, error)
	GetDatesByMovie(ctx context.Context, movie string) ([]time.Time, error)
	GetShowsByMovieAndDate(ctx context.Context, movie string, date time.Time) ([]ShowDetails, error)
	GetShowById(ctx context.Context, id int) (*ShowDetails, error)
}
