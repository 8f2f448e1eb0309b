package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/cinetix/movie-ticketing/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TicketsSuite struct {
	BaseSuite
}

func TestTicketsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(TicketsSuite))
}

func (s *TicketsSuite) SetupTest() {
	s.resetTickets()
}

func (s *TicketsSuite) bookTicket(showID int, seats []api.SeatCoordinate, mobile string) api.TicketResponse {
	rec := s.doRequest(http.MethodPost, fmt.Sprintf("/shows/%d/tickets", showID), api.CreateTicketRequest{
		CustomerName:   "Asha Rao",
		CustomerMobile: mobile,
		Seats:          seats,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var ticket api.TicketResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&ticket))
	s.requireTotalIsSeatSum(ticket)

	return ticket
}

// requireTotalIsSeatSum checks that a ticket read back over the API carries a
// total equal to the sum of its seats' prices.
func (s *TicketsSuite) requireTotalIsSeatSum(ticket api.TicketResponse) {
	sum := decimal.Zero
	for _, seat := range ticket.Seats {
		sum = sum.Add(seat.Price)
	}

	s.Require().True(ticket.Total.Equal(sum), "total %s != seat sum %s", ticket.Total, sum)
}

func (s *TicketsSuite) seatMap(showID int) api.SeatMapResponse {
	rec := s.doRequest(http.MethodGet, fmt.Sprintf("/shows/%d/seats", showID), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var seatMap api.SeatMapResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&seatMap))

	return seatMap
}

func (s *TicketsSuite) TestBookingAndCancellationLifecycle() {
	// A1 is premium (150), C2 is standard (100) on a 100.00 base price show.
	ticket := s.bookTicket(100, []api.SeatCoordinate{{Row: 0, Col: 0}, {Row: 2, Col: 1}}, "9876543210")

	s.Regexp(`^B[0-9A-F]{8}$`, ticket.Reference)
	s.True(ticket.Total.Equal(decimal.NewFromInt(250)), "total = %s", ticket.Total)
	s.Len(ticket.Seats, 2)

	seatMap := s.seatMap(100)
	s.False(seatMap.SeatRows[0].Seats[0].Available, "A1 must be held")
	s.False(seatMap.SeatRows[2].Seats[1].Available, "C2 must be held")
	s.True(seatMap.SeatRows[0].Seats[1].Available, "A2 must stay free")

	// Booking an already-held seat fails without partial effects.
	rec := s.doRequest(http.MethodPost, "/shows/100/tickets", api.CreateTicketRequest{
		CustomerName:   "Vikram Shah",
		CustomerMobile: "9123456780",
		Seats:          []api.SeatCoordinate{{Row: 0, Col: 0}, {Row: 5, Col: 5}},
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.True(s.seatMap(100).SeatRows[5].Seats[5].Available, "failed booking must not hold any seat")

	// Partial cancellation refunds the seat's exact price and keeps the rest.
	rec = s.doRequest(http.MethodPost, fmt.Sprintf("/tickets/%d/cancellation", ticket.Id), api.CancelSeatsRequest{
		Seats: []api.SeatCoordinate{{Row: 0, Col: 0}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var partial api.CancellationResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&partial))
	s.True(partial.Refund.Equal(decimal.NewFromInt(150)), "refund = %s", partial.Refund)
	s.Equal("BOOKED", partial.Ticket.Status)
	s.True(partial.Ticket.Total.Equal(decimal.NewFromInt(100)))
	s.Len(partial.Ticket.Seats, 1)
	s.requireTotalIsSeatSum(partial.Ticket)

	// The released seat is immediately bookable by someone else.
	rebooked := s.bookTicket(100, []api.SeatCoordinate{{Row: 0, Col: 0}}, "9123456780")
	s.True(rebooked.Total.Equal(decimal.NewFromInt(150)))

	// Cancelling the remaining seat flips the ticket to CANCELLED.
	rec = s.doRequest(http.MethodPost, fmt.Sprintf("/tickets/%d/cancellation", ticket.Id), api.CancelSeatsRequest{All: true})
	s.Require().Equal(http.StatusOK, rec.Code)

	var full api.CancellationResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&full))
	s.True(full.Refund.Equal(decimal.NewFromInt(100)))
	s.Equal("CANCELLED", full.Ticket.Status)
	s.True(full.Ticket.Total.Equal(decimal.Zero))
	s.Empty(full.Ticket.Seats)

	// Cancelling a cancelled ticket is rejected.
	rec = s.doRequest(http.MethodPost, fmt.Sprintf("/tickets/%d/cancellation", ticket.Id), api.CancelSeatsRequest{All: true})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.doRequest(http.MethodGet, fmt.Sprintf("/tickets/%d", ticket.Id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var fetched api.TicketResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&fetched))
	s.Equal("CANCELLED", fetched.Status)
	s.Empty(fetched.Seats)
	s.requireTotalIsSeatSum(fetched)
}

func (s *TicketsSuite) TestConcurrentOverlappingBookingsExactlyOneWins() {
	// The same two seats, named in opposite orders, so the requests would
	// collide on different seats first if insert order followed the request.
	orders := [][]api.SeatCoordinate{
		{{Row: 3, Col: 3}, {Row: 3, Col: 4}},
		{{Row: 3, Col: 4}, {Row: 3, Col: 3}},
	}

	var wg sync.WaitGroup
	codes := make(chan int, len(orders))

	for i, seats := range orders {
		wg.Add(1)
		mobile := fmt.Sprintf("900000000%d", i)

		go func() {
			defer wg.Done()

			rec := s.doRequest(http.MethodPost, "/shows/102/tickets", api.CreateTicketRequest{
				CustomerName:   "Race Customer",
				CustomerMobile: mobile,
				Seats:          seats,
			})
			codes <- rec.Code
		}()
	}

	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}

	s.Equal(1, counts[http.StatusCreated], "exactly one booking must succeed: %v", counts)
	s.Equal(1, counts[http.StatusConflict], "exactly one booking must lose: %v", counts)

	seatMap := s.seatMap(102)
	s.False(seatMap.SeatRows[3].Seats[3].Available)
	s.False(seatMap.SeatRows[3].Seats[4].Available)

	held := 0
	for _, row := range seatMap.SeatRows {
		for _, seat := range row.Seats {
			if !seat.Available {
				held++
			}
		}
	}
	s.Equal(2, held, "the losing booking must leave no seats behind")
}

func (s *TicketsSuite) TestGetTicketsByMobilePagination() {
	mobile := "9876501234"

	s.bookTicket(100, []api.SeatCoordinate{{Row: 4, Col: 0}}, mobile)
	s.bookTicket(100, []api.SeatCoordinate{{Row: 4, Col: 1}}, mobile)
	s.bookTicket(101, []api.SeatCoordinate{{Row: 4, Col: 2}}, mobile)

	rec := s.doRequest(http.MethodGet, fmt.Sprintf("/tickets?mobile=%s&pageSize=2", mobile), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var firstPage api.TicketListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&firstPage))
	s.Len(firstPage.Tickets, 2)
	s.Equal(3, firstPage.Metadata.TotalRecords)
	s.Equal(2, firstPage.Metadata.LastPage)

	rec = s.doRequest(http.MethodGet, fmt.Sprintf("/tickets?mobile=%s&pageSize=2&page=2", mobile), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var secondPage api.TicketListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&secondPage))
	s.Len(secondPage.Tickets, 1)

	rec = s.doRequest(http.MethodGet, "/tickets?mobile=9999999999", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var empty api.TicketListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&empty))
	s.Empty(empty.Tickets)
	s.Equal(0, empty.Metadata.TotalRecords)
}

func (s *TicketsSuite) TestShowReportAggregatesByTier() {
	s.bookTicket(101, []api.SeatCoordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, "9876543210")
	s.bookTicket(101, []api.SeatCoordinate{{Row: 2, Col: 0}}, "9123456780")

	rec := s.doRequest(http.MethodGet, "/shows/101/report", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var report api.ShowReportResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&report))

	s.Equal(101, report.ShowId)
	s.Equal(3, report.HeldSeats)
	s.Equal(49, report.TotalSeats)
	s.InDelta(float64(3)/49*100, report.OccupancyPct, 0.001)
	s.True(report.Revenue.Equal(decimal.NewFromInt(400)), "revenue = %s", report.Revenue)

	s.Require().Len(report.Breakdown, 2)
	s.Equal("Premium", report.Breakdown[0].Tier)
	s.Equal(2, report.Breakdown[0].Seats)
	s.True(report.Breakdown[0].Revenue.Equal(decimal.NewFromInt(300)))
	s.Equal("Standard", report.Breakdown[1].Tier)
	s.Equal(1, report.Breakdown[1].Seats)
	s.True(report.Breakdown[1].Revenue.Equal(decimal.NewFromInt(100)))

	// Cancellations drop out of the report.
	cancelRec := s.doRequest(http.MethodGet, "/tickets?mobile=9123456780", nil)
	s.Require().Equal(http.StatusOK, cancelRec.Code)

	var list api.TicketListResponse
	s.Require().NoError(json.NewDecoder(cancelRec.Body).Decode(&list))
	s.Require().Len(list.Tickets, 1)

	rec = s.doRequest(http.MethodPost, fmt.Sprintf("/tickets/%d/cancellation", list.Tickets[0].Id), api.CancelSeatsRequest{All: true})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.doRequest(http.MethodGet, "/shows/101/report", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&report))
	s.Equal(2, report.HeldSeats)
	s.True(report.Revenue.Equal(decimal.NewFromInt(300)))
}

func (s *TicketsSuite) TestConfirmationEmailIsSent() {
	rec := s.doRequest(http.MethodPost, "/shows/100/tickets", api.CreateTicketRequest{
		CustomerName:   "Asha Rao",
		CustomerMobile: "9876543210",
		CustomerEmail:  ptr("asha@example.com"),
		Seats:          []api.SeatCoordinate{{Row: 6, Col: 6}},
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	s.Require().Eventually(func() bool {
		return len(s.app.Mailer.SentEmails()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	email := s.app.Mailer.SentEmails()[0]
	s.Equal("asha@example.com", email.Recipient)
	s.Equal("ticket_confirmation.tmpl", email.TemplateFile)
}

func ptr[T any](v T) *T {
	return &v
}
