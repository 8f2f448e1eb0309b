package domain

import "errors"

var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrInvalidSeat            = errors.New("seat is outside the screen grid")
	ErrSeatUnavailable        = errors.New("seat(s) are already booked")
	ErrSeatNotOnTicket        = errors.New("seat does not belong to the ticket")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrTicketAlreadyCancelled = errors.New("ticket is already cancelled")
)
