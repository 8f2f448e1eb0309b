package app

import (
	"errors"
	"net/http"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
)

// GetSeatMapByShow renders the full seat grid of a show with per-seat tier,
// price, and availability. Availability always comes straight from the
// database so the map reflects the latest bookings.
func (app *Application) GetSeatMapByShow(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.showRepo.GetShowById(r.Context(), showID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	heldSeats, err := app.ticketRepo.GetHeldSeats(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	held := make(map[domain.SeatCoordinate]struct{}, len(heldSeats))
	for _, seat := range heldSeats {
		held[seat] = struct{}{}
	}

	grid := show.Grid()

	resp := api.SeatMapResponse{
		ShowId:     show.ID,
		ScreenName: show.ScreenName,
		Rows:       show.Rows,
		Cols:       show.Cols,
		SeatRows:   make([]api.SeatRow, 0, show.Rows),
	}

	for row := 0; row < show.Rows; row++ {
		seatRow := api.SeatRow{Row: row, Seats: make([]api.Seat, 0, show.Cols)}

		for col := 0; col < show.Cols; col++ {
			coord := domain.SeatCoordinate{Row: row, Col: col}

			tier, err := grid.TierOf(coord)
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}

			_, taken := held[coord]

			seatRow.Seats = append(seatRow.Seats, api.Seat{
				Row:       row,
				Col:       col,
				Label:     coord.Label(),
				Tier:      string(tier),
				Price:     domain.TierPrice(show.BasePrice, tier),
				Available: !taken,
			})
		}

		resp.SeatRows = append(resp.SeatRows, seatRow)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
