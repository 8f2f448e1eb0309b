package app

import (
	"errors"
	"net/http"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/cinetix/movie-ticketing/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.ticketRepo.GetById(r.Context(), ticketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	show, err := app.showRepo.GetShowById(r.Context(), ticket.ShowID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toTicketResponse(ticket, show.Grid())

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicketsByMobile(w http.ResponseWriter, r *http.Request) {
	params := api.TicketListParams{
		Mobile: r.URL.Query().Get("mobile"),
	}

	page, err := app.readInt(r, "page", defaultPage)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pageSize, err := app.readInt(r, "pageSize", defaultPageSize)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params.Page = &page
	params.PageSize = &pageSize

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{Page: page, PageSize: pageSize}

	tickets, metadata, err := app.ticketRepo.GetByMobile(r.Context(), params.Mobile, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	// Tickets of one customer can span shows on different screens, so the
	// grids are resolved per show and reused across tickets.
	grids := make(map[int]domain.SeatGrid)

	resp := api.TicketListResponse{
		Tickets: make([]api.TicketResponse, 0, len(tickets)),
		Metadata: api.Metadata{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}

	for _, ticket := range tickets {
		grid, ok := grids[ticket.ShowID]
		if !ok {
			show, err := app.showRepo.GetShowById(r.Context(), ticket.ShowID)
			if err != nil {
				app.serverErrorResponse(w, r, err)
				return
			}

			grid = show.Grid()
			grids[ticket.ShowID] = grid
		}

		resp.Tickets = append(resp.Tickets, toTicketResponse(ticket, grid))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toTicketResponse(ticket *domain.Ticket, grid domain.SeatGrid) api.TicketResponse {
	resp := api.TicketResponse{
		Id:             ticket.ID,
		Reference:      ticket.Reference,
		ShowId:         ticket.ShowID,
		CustomerName:   ticket.CustomerName,
		CustomerMobile: ticket.CustomerMobile,
		Status:         string(ticket.Status),
		Total:          ticket.Total,
		CreatedAt:      ticket.CreatedAt,
		Seats:          make([]api.TicketSeat, 0, len(ticket.Seats)),
	}

	for _, seat := range ticket.Seats {
		coord := seat.Coordinate()

		tier, err := grid.TierOf(coord)
		if err != nil {
			tier = domain.TierStandard
		}

		resp.Seats = append(resp.Seats, api.TicketSeat{
			Row:   seat.Row,
			Col:   seat.Col,
			Label: coord.Label(),
			Tier:  string(tier),
			Price: seat.Price,
		})
	}

	return resp
}
