package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SeatTier string

const (
	TierStandard SeatTier = "Standard"
	TierPremium  SeatTier = "Premium"
)

// The front rows of every screen are sold as Premium at a markup on the
// show's base price. The banding is fixed across all screens.
const PremiumRowCount = 2

var premiumMultiplier = decimal.NewFromFloat(1.5)

type Screen struct {
	ID   int
	Name string
	Rows int
	Cols int
}

// SeatCoordinate addresses a single seat inside a screen grid. Both indexes
// are zero-based; row 0 maps to the row printed as "A" on a ticket.
type SeatCoordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Label renders the coordinate the way it appears on a ticket, e.g. "A1".
func (c SeatCoordinate) Label() string {
	return fmt.Sprintf("%c%d", rune('A'+c.Row), c.Col+1)
}

// SeatGrid is a pure view over a screen's dimensions: it enumerates the
// addressable seats and classifies and prices them by tier. It carries no
// booking state.
type SeatGrid struct {
	rows int
	cols int
}

func NewSeatGrid(screen Screen) SeatGrid {
	return SeatGrid{rows: screen.Rows, cols: screen.Cols}
}

func (g SeatGrid) Capacity() int {
	return g.rows * g.cols
}

func (g SeatGrid) Contains(c SeatCoordinate) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Seats returns every coordinate of the grid in row-major order.
func (g SeatGrid) Seats() []SeatCoordinate {
	seats := make([]SeatCoordinate, 0, g.Capacity())

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			seats = append(seats, SeatCoordinate{Row: row, Col: col})
		}
	}

	return seats
}

func (g SeatGrid) TierOf(c SeatCoordinate) (SeatTier, error) {
	if !g.Contains(c) {
		return "", ErrInvalidSeat
	}

	if c.Row < PremiumRowCount {
		return TierPremium, nil
	}

	return TierStandard, nil
}

// PriceOf computes the price of a seat for the given show: the show's base
// price multiplied by the tier multiplier, rounded to cents.
func (g SeatGrid) PriceOf(show Show, c SeatCoordinate) (decimal.Decimal, error) {
	tier, err := g.TierOf(c)
	if err != nil {
		return decimal.Zero, err
	}

	return TierPrice(show.BasePrice, tier), nil
}

// TierPrice applies the tier multiplier to a show base price.
func TierPrice(basePrice decimal.Decimal, tier SeatTier) decimal.Decimal {
	if tier == TierPremium {
		return basePrice.Mul(premiumMultiplier).Round(2)
	}

	return basePrice.Round(2)
}
