package app

import (
	"errors"
	"net/http"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
)

// CancelTicketSeatsHandler releases some or all seats of a ticket. The refund
// is the exact sum of the cancelled seats' charged prices, and the ticket's
// total is recomputed from what remains. Cancelling the last seat flips the
// ticket to CANCELLED.
func (app *Application) CancelTicketSeatsHandler(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CancelSeatsRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if req.All && len(req.Seats) > 0 {
		app.badRequestResponse(w, r, errors.New("provide either seats or all, not both"))
		return
	}
	if !req.All && len(req.Seats) == 0 {
		app.badRequestResponse(w, r, errors.New("provide seats to cancel, or set all to cancel the whole ticket"))
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	var coords []domain.SeatCoordinate
	if !req.All {
		coords = make([]domain.SeatCoordinate, 0, len(req.Seats))
		for _, seat := range req.Seats {
			coords = append(coords, domain.SeatCoordinate{Row: seat.Row, Col: seat.Col})
		}
	}

	cancellation, err := app.ticketRepo.CancelSeats(r.Context(), ticketID, coords)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrTicketAlreadyCancelled):
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrSeatNotOnTicket):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	show, err := app.showRepo.GetShowById(r.Context(), cancellation.Ticket.ShowID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CancellationResponse{
		Refund: cancellation.Refund,
		Ticket: toTicketResponse(cancellation.Ticket, show.Grid()),
	}

	if cancellation.Ticket.CustomerEmail != nil {
		app.sendCancellationNotice(r, *cancellation.Ticket.CustomerEmail, show, cancellation)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendCancellationNotice(
	r *http.Request,
	recipient string,
	show *domain.ShowDetails,
	cancellation *domain.Cancellation) {

	logger := app.contextGetLogger(r)

	data := map[string]any{
		"Reference":      cancellation.Ticket.Reference,
		"CustomerName":   cancellation.Ticket.CustomerName,
		"Movie":          show.ScreenName,
		"ShowTime":       show.StartTime.Format("Mon, 02 Jan 2006 15:04"),
		"CancelledCount": len(cancellation.CancelledSeats),
		"Refund":         cancellation.Refund,
		"Total":          cancellation.Ticket.Total,
		"Status":         string(cancellation.Ticket.Status),
	}

	app.background(func() {
		err := app.mailer.Send(recipient, "ticket_cancellation.tmpl", data)
		if err != nil {
			logger.Error("failed to send cancellation email", "error", err)
		}
	})
}
