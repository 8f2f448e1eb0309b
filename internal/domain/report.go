package domain

import "github.com/shopspring/decimal"

type TierBreakdown struct {
	Seats   int
	Revenue decimal.Decimal
}

// ShowReport is a read-only aggregate over a show's active seats: occupancy,
// revenue, and a per-tier breakdown. It reflects whatever the ledger held at
// the moment the seats were read.
type ShowReport struct {
	ShowID       int
	HeldSeats    int
	TotalSeats   int
	OccupancyPct float64
	Revenue      decimal.Decimal
	Breakdown    map[SeatTier]TierBreakdown
}

// BuildShowReport aggregates the active seats of a show against its grid.
// Seats are classified by the grid's banding rule; revenue uses the price
// each seat was actually charged.
func BuildShowReport(grid SeatGrid, showID int, seats []TicketSeat) ShowReport {
	report := ShowReport{
		ShowID:     showID,
		HeldSeats:  len(seats),
		TotalSeats: grid.Capacity(),
		Revenue:    decimal.Zero,
		Breakdown:  make(map[SeatTier]TierBreakdown),
	}

	for _, seat := range seats {
		tier, err := grid.TierOf(seat.Coordinate())
		if err != nil {
			// A seat outside the grid can only come from a screen resize,
			// which the data model forbids. Count it as Standard.
			tier = TierStandard
		}

		entry := report.Breakdown[tier]
		entry.Seats++
		entry.Revenue = entry.Revenue.Add(seat.Price)
		report.Breakdown[tier] = entry

		report.Revenue = report.Revenue.Add(seat.Price)
	}

	if report.TotalSeats > 0 {
		report.OccupancyPct = float64(report.HeldSeats) / float64(report.TotalSeats) * 100
	}

	return report
}
