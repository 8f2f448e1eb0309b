package app

import (
	"errors"
	"net/http"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
)

// reportTierOrder fixes the breakdown ordering in responses so clients don't
// depend on map iteration order.
var reportTierOrder = []domain.SeatTier{domain.TierPremium, domain.TierStandard}

func (app *Application) GetShowReport(w http.ResponseWriter, r *http.Request) {
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

	seats, err := app.ticketRepo.GetActiveSeatsByShow(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	report := domain.BuildShowReport(show.Grid(), showID, seats)

	resp := api.ShowReportResponse{
		ShowId:       report.ShowID,
		HeldSeats:    report.HeldSeats,
		TotalSeats:   report.TotalSeats,
		OccupancyPct: report.OccupancyPct,
		Revenue:      report.Revenue,
		Breakdown:    make([]api.TierBreakdown, 0, len(report.Breakdown)),
	}

	for _, tier := range reportTierOrder {
		entry, ok := report.Breakdown[tier]
		if !ok {
			continue
		}

		resp.Breakdown = append(resp.Breakdown, api.TierBreakdown{
			Tier:    string(tier),
			Seats:   entry.Seats,
			Revenue: entry.Revenue,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
