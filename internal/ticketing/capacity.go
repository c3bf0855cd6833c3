package ticketing

import (
	"context"
	"fmt"

	"campusevents/internal/models"
)

type TicketCounter interface {
	CountActiveTickets(ctx context.Context, eventID string) (int, error)
}

// CapacityOracle derives remaining capacity from the authoritative ticket
// count. Cancelled tickets never occupy a seat.
type CapacityOracle struct {
	tickets TicketCounter
}

func NewCapacityOracle(tickets TicketCounter) *CapacityOracle {
	return &CapacityOracle{tickets: tickets}
}

// Remaining returns the number of seats left. unlimited is true when the
// event has no capacity cap, in which case remaining is meaningless.
func (o *CapacityOracle) Remaining(ctx context.Context, event *models.Event) (remaining int, unlimited bool, err error) {
	if event.Unlimited() {
		return 0, true, nil
	}

	sold, err := o.tickets.CountActiveTickets(ctx, event.ID)
	if err != nil {
		return 0, false, fmt.Errorf("count tickets: %w", err)
	}

	remaining = *event.TicketsAvailable - sold
	if remaining < 0 {
		remaining = 0
	}

	return remaining, false, nil
}

// HasRoom reports whether one more ticket may be issued.
func (o *CapacityOracle) HasRoom(ctx context.Context, event *models.Event) (bool, error) {
	remaining, unlimited, err := o.Remaining(ctx, event)
	if err != nil {
		return false, err
	}
	return unlimited || remaining > 0, nil
}
