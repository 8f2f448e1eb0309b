package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateTicketHandler books one ticket holding every requested seat of a
// show, all or nothing. The unique constraint on held seats decides races
// between overlapping requests; the losing request gets a 409.
func (app *Application) CreateTicketHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readIDParam(r, "showID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CreateTicketRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
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

	grid := show.Grid()

	seen := make(map[domain.SeatCoordinate]struct{}, len(req.Seats))
	seats := make([]domain.TicketSeat, 0, len(req.Seats))
	total := decimal.Zero

	for _, seat := range req.Seats {
		coord := domain.SeatCoordinate{Row: seat.Row, Col: seat.Col}

		if _, dup := seen[coord]; dup {
			app.badRequestResponse(w, r, fmt.Errorf("seat %s requested more than once", coord.Label()))
			return
		}
		seen[coord] = struct{}{}

		price, err := grid.PriceOf(show.Show, coord)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("seat (%d, %d): %w", seat.Row, seat.Col, err))
			return
		}

		seats = append(seats, domain.TicketSeat{
			ShowID: showID,
			Row:    coord.Row,
			Col:    coord.Col,
			Price:  price,
		})
		total = total.Add(price)
	}

	ticket := &domain.Ticket{
		Reference:      domain.NewTicketReference(),
		ShowID:         showID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		CustomerEmail:  req.CustomerEmail,
		Status:         domain.TicketStatusBooked,
		Total:          total,
		Seats:          seats,
	}

	err = app.ticketRepo.Create(r.Context(), ticket)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatUnavailable):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := toTicketResponse(ticket, grid)

	if ticket.CustomerEmail != nil {
		app.sendTicketConfirmation(r, *ticket.CustomerEmail, show, resp)
	}

	headers := http.Header{}
	headers.Set("Location", fmt.Sprintf("/tickets/%d", ticket.ID))

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendTicketConfirmation(
	r *http.Request,
	recipient string,
	show *domain.ShowDetails,
	ticket api.TicketResponse) {

	logger := app.contextGetLogger(r)

	data := map[string]any{
		"Reference":    ticket.Reference,
		"CustomerName": ticket.CustomerName,
		"Movie":        show.ScreenName,
		"ShowTime":     show.StartTime.Format("Mon, 02 Jan 2006 15:04"),
		"Seats":        ticket.Seats,
		"Total":        ticket.Total,
	}

	app.background(func() {
		err := app.mailer.Send(recipient, "ticket_confirmation.tmpl", data)
		if err != nil {
			logger.Error("failed to send ticket confirmation email", "error", err)
		}
	})
}
