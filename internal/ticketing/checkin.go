package ticketing

import (
	"context"
	"log/slog"

	"campusevents/internal/models"
)

type CheckinStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	MarkTicketCheckedIn(ctx context.Context, id string) error
}

// Gate validates and idempotently records attendance at the door.
type Gate struct {
	log   *slog.Logger
	store CheckinStore
}

func NewGate(log *slog.Logger, store CheckinStore) *Gate {
	return &Gate{log: log, store: store}
}

// CheckIn marks a ticket as used. Only the event's organizer may scan;
// tickets issued for a different event are reported as not found so a valid
// ticket can never be checked in against the wrong event. A second scan
// returns ErrAlreadyCheckedIn without changing state.
func (g *Gate) CheckIn(ctx context.Context, requester models.Identity, eventID, ticketID string) (*models.Ticket, error) {
	event, err := g.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	if event.CreatedBy != requester.UserID {
		return nil, ErrForbidden
	}

	ticket, err := g.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fromStore(err)
	}

	if ticket.EventID != event.ID {
		return nil, ErrTicketNotFound
	}
	if ticket.Cancelled {
		return nil, ErrTicketCancelled
	}
	if ticket.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}

	if err = g.store.MarkTicketCheckedIn(ctx, ticket.ID); err != nil {
		return nil, fromStore(err)
	}
	ticket.CheckedIn = true

	g.log.Info("ticket checked in",
		slog.String("ticket_id", ticket.ID),
		slog.String("event_id", event.ID),
	)

	return ticket, nil
}
