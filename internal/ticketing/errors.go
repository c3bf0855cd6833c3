package ticketing

import (
	"errors"

	"campusevents/internal/storage"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrSoldOut           = errors.New("event is sold out")
	ErrAlreadyCancelled  = errors.New("already cancelled")
	ErrAlreadyCheckedIn  = errors.New("ticket already checked in")
	ErrTicketCancelled   = errors.New("ticket is cancelled")
	ErrForbidden         = errors.New("not authorized")
	ErrNotPaidEvent      = errors.New("event is not a paid event")
	ErrInvalidPrice      = errors.New("event price must be greater than zero")
	ErrAlreadyHasTicket  = errors.New("user already has a ticket for this event")
	ErrAlreadyProcessed  = errors.New("payment reference already processed")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrBadMetadata       = errors.New("missing or malformed payment metadata")
	ErrAlreadyOnWaitlist = errors.New("already on waitlist")
)

// fromStore translates storage sentinels into the domain vocabulary so
// handlers only ever match against this package's errors.
func fromStore(err error) error {
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, storage.ErrTicketNotFound):
		return ErrTicketNotFound
	case errors.Is(err, storage.ErrSoldOut):
		return ErrSoldOut
	case errors.Is(err, storage.ErrDuplicateReference):
		return ErrAlreadyProcessed
	case errors.Is(err, storage.ErrAlreadyOnWaitlist):
		return ErrAlreadyOnWaitlist
	}
	return err
}
