package ticketing

import (
	"context"
	"fmt"
	"log/slog"

	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
)

type CancelStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	MarkTicketCancelled(ctx context.Context, id string) error
	MarkEventCancelled(ctx context.Context, id string) error
	ListActiveTicketsByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	CountActiveTickets(ctx context.Context, eventID string) (int, error)
}

// Refunder is the slice of the payment reconciler the orchestrator needs.
type Refunder interface {
	Refund(ctx context.Context, reference string) *RefundResult
}

// Orchestrator drives ticket and event cancellation, including the
// compensating steps: best-effort refunds, holder notifications, and
// waitlist promotion when a seat frees up.
type Orchestrator struct {
	log      *slog.Logger
	store    CancelStore
	refunder Refunder
	waitlist *WaitlistManager
	mailer   Mailer
	oracle   *CapacityOracle
}

func NewOrchestrator(log *slog.Logger, store CancelStore, refunder Refunder, waitlist *WaitlistManager, mailer Mailer) *Orchestrator {
	return &Orchestrator{
		log:      log,
		store:    store,
		refunder: refunder,
		waitlist: waitlist,
		mailer:   mailer,
		oracle:   NewCapacityOracle(store),
	}
}

// TicketCancellation is the outcome of a single ticket cancellation. Refund
// is nil for free tickets and for failed refund attempts.
type TicketCancellation struct {
	Ticket *models.Ticket `json:"ticket"`
	Refund *RefundResult  `json:"refund,omitempty"`
}

// CancelTicket cancels the requester's own ticket, attempts a refund for
// paid tickets, and promotes the waitlist head when the freed seat leaves
// the event with room.
func (o *Orchestrator) CancelTicket(ctx context.Context, requester models.Identity, ticketID string) (*TicketCancellation, error) {
	ticket, err := o.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, fromStore(err)
	}

	if ticket.UserID != requester.UserID {
		return nil, ErrForbidden
	}
	if ticket.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	var refund *RefundResult
	if ticket.PaymentProvider == models.ProviderPaystack && ticket.Reference != "" {
		refund = o.refunder.Refund(ctx, ticket.Reference)
	}

	if err = o.store.MarkTicketCancelled(ctx, ticket.ID); err != nil {
		return nil, fromStore(err)
	}
	ticket.Cancelled = true

	o.promoteIfRoom(ctx, ticket.EventID)

	o.log.Info("ticket cancelled",
		slog.String("ticket_id", ticket.ID),
		slog.Bool("refunded", refund != nil),
	)

	return &TicketCancellation{Ticket: ticket, Refund: refund}, nil
}

// promoteIfRoom re-checks capacity after a cancellation and promotes the
// waitlist head when a seat is actually free. Failures here must not fail
// the cancellation that triggered them.
func (o *Orchestrator) promoteIfRoom(ctx context.Context, eventID string) {
	event, err := o.store.GetEvent(ctx, eventID)
	if err != nil {
		o.log.Error("failed to load event for waitlist promotion", sl.Err(err))
		return
	}
	if event.Cancelled {
		return
	}

	room, err := o.oracle.HasRoom(ctx, event)
	if err != nil {
		o.log.Error("failed to compute capacity for waitlist promotion", sl.Err(err))
		return
	}
	if !room {
		return
	}

	if err = o.waitlist.PromoteNext(ctx, event); err != nil {
		o.log.Error("failed to promote waitlist head", sl.Err(err))
	}
}

// EventCancellation summarizes an event-wide cancellation.
type EventCancellation struct {
	EventID          string `json:"event_id"`
	TicketsCancelled int    `json:"tickets_cancelled"`
	RefundsIssued    int    `json:"refunds_issued"`
}

// CancelEvent cancels the event and then walks every active ticket:
// best-effort refund, mark cancelled, notify the holder. A failure on one
// ticket never halts processing of the rest. No waitlist promotion happens;
// the event itself is gone.
func (o *Orchestrator) CancelEvent(ctx context.Context, requester models.Identity, eventID string) (*EventCancellation, error) {
	event, err := o.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	if event.CreatedBy != requester.UserID {
		return nil, ErrForbidden
	}
	if event.Cancelled {
		return nil, ErrAlreadyCancelled
	}

	if err = o.store.MarkEventCancelled(ctx, event.ID); err != nil {
		return nil, fromStore(err)
	}

	tickets, err := o.store.ListActiveTicketsByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	result := &EventCancellation{EventID: event.ID}

	for _, ticket := range tickets {
		if ticket.PaymentProvider == models.ProviderPaystack && ticket.Reference != "" {
			if refund := o.refunder.Refund(ctx, ticket.Reference); refund != nil {
				result.RefundsIssued++
			}
		}

		if err = o.store.MarkTicketCancelled(ctx, ticket.ID); err != nil {
			o.log.Error("failed to cancel ticket during event cancellation",
				slog.String("ticket_id", ticket.ID), sl.Err(err))
			continue
		}
		result.TicketsCancelled++

		if ticket.UserEmail == "" {
			continue
		}
		mail := Mail{
			To:      ticket.UserEmail,
			Subject: fmt.Sprintf("%s has been cancelled", event.Title),
			Body: fmt.Sprintf(
				"We're sorry: %s on %s has been cancelled by the organizer.\n"+
					"Paid tickets are refunded automatically.",
				event.Title, event.Date.Format("Jan 2, 2006"),
			),
		}
		if err = o.mailer.Send(ctx, mail); err != nil {
			o.log.Error("failed to send cancellation notice",
				slog.String("to", ticket.UserEmail), sl.Err(err))
		}
	}

	o.log.Info("event cancelled",
		slog.String("event_id", event.ID),
		slog.Int("tickets_cancelled", result.TicketsCancelled),
		slog.Int("refunds_issued", result.RefundsIssued),
	)

	return result, nil
}
