// Package api holds the request and response payloads exchanged by the HTTP
// layer. The types mirror the domain shapes one to one so a client never sees
// store internals.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

type SeatCoordinate struct {
	Row int `json:"row" validate:"gte=0"`
	Col int `json:"col" validate:"gte=0"`
}

type CreateTicketRequest struct {
	CustomerName   string           `json:"customerName" validate:"required,max=100"`
	CustomerMobile string           `json:"customerMobile" validate:"required,mobile"`
	CustomerEmail  *string          `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Seats          []SeatCoordinate `json:"seats" validate:"required,min=1,dive"`
}

type CancelSeatsRequest struct {
	// Either a non-empty list of seats or all=true, never both.
	Seats []SeatCoordinate `json:"seats,omitempty" validate:"omitempty,min=1,dive"`
	All   bool             `json:"all,omitempty"`
}

type TicketSeat struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Label string          `json:"label"`
	Tier  string          `json:"tier"`
	Price decimal.Decimal `json:"price"`
}

type TicketResponse struct {
	Id             int             `json:"id"`
	Reference      string          `json:"reference"`
	ShowId         int             `json:"showId"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
	Status         string          `json:"status"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
	Seats          []TicketSeat    `json:"seats"`
}

type CancellationResponse struct {
	Refund decimal.Decimal `json:"refund"`
	Ticket TicketResponse  `json:"ticket"`
}

type Seat struct {
	Row       int             `json:"row"`
	Col       int             `json:"col"`
	Label     string          `json:"label"`
	Tier      string          `json:"tier"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowId     int       `json:"showId"`
	ScreenName string    `json:"screenName"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type MovieListResponse struct {
	Movies []string `json:"movies"`
}

type MovieDatesResponse struct {
	Movie string   `json:"movie"`
	Dates []string `json:"dates"`
}

type ShowSummary struct {
	Id         int             `json:"id"`
	ScreenName string          `json:"screenName"`
	StartTime  time.Time       `json:"startTime"`
	BasePrice  decimal.Decimal `json:"basePrice"`
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
}

type ShowListResponse struct {
	Movie string        `json:"movie"`
	Date  string        `json:"date"`
	Shows []ShowSummary `json:"shows"`
}

type TierBreakdown struct {
	Tier    string          `json:"tier"`
	Seats   int             `json:"seats"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ShowReportResponse struct {
	ShowId       int             `json:"showId"`
	HeldSeats    int             `json:"heldSeats"`
	TotalSeats   int             `json:"totalSeats"`
	OccupancyPct float64         `json:"occupancyPct"`
	Revenue      decimal.Decimal `json:"revenue"`
	Breakdown    []TierBreakdown `json:"breakdown"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type TicketListResponse struct {
	Tickets  []TicketResponse `json:"tickets"`
	Metadata Metadata         `json:"metadata"`
}

type TicketListParams struct {
	Mobile   string `validate:"required,mobile"`
	Page     *int   `validate:"omitempty,gte=1"`
	PageSize *int   `validate:"omitempty,gte=1,lte=50"`
}
