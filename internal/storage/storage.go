// Package storage defines the sentinel errors shared by storage backends.
package storage

import (
	"errors"
	"time"
)

// EventFilter narrows event listings; zero values mean no filtering.
type EventFilter struct {
	Category string
	Location string
	Date     time.Time
}

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrDuplicateReference = errors.New("duplicate payment reference")
	ErrAlreadyOnWaitlist  = errors.New("already on waitlist")
	ErrSoldOut            = errors.New("no tickets available")
)
