// Package ticketing implements the ticket lifecycle: capacity-gated issuance,
// payment reconciliation, waitlist promotion, cancellation with refunds, and
// door check-in.
package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
	"campusevents/internal/storage"
)

type LedgerStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetActiveTicketByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Ticket, error)
	GetTicketByReference(ctx context.Context, reference string) (*models.Ticket, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket, capacity *int) (string, error)
	CountActiveTickets(ctx context.Context, eventID string) (int, error)
}

// Ledger owns ticket creation for both the free RSVP path and the paid
// webhook path.
type Ledger struct {
	log    *slog.Logger
	store  LedgerStore
	mailer Mailer
	oracle *CapacityOracle
}

func NewLedger(log *slog.Logger, store LedgerStore, mailer Mailer) *Ledger {
	return &Ledger{
		log:    log,
		store:  store,
		mailer: mailer,
		oracle: NewCapacityOracle(store),
	}
}

// IssueParams parameterizes a single ticket issuance. For the free provider
// Reference must be empty and AmountPaid zero; for paystack Reference is the
// gateway transaction reference and must be unique.
type IssueParams struct {
	User       models.Identity
	Event      *models.Event
	Provider   models.PaymentProvider
	AmountPaid float64
	Status     models.PaymentStatus
	Reference  string
}

// RSVP issues a free ticket for the caller. Calling it twice returns the
// first ticket unchanged.
func (l *Ledger) RSVP(ctx context.Context, user models.Identity, eventID string) (*models.Ticket, error) {
	event, err := l.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	if event.IsPaid {
		return nil, fmt.Errorf("%w: paid events require payment", ErrNotPaidEvent)
	}

	return l.IssueTicket(ctx, IssueParams{
		User:     user,
		Event:    event,
		Provider: models.ProviderFree,
		Status:   models.PaymentPaid,
	})
}

// IssueTicket creates one ticket after re-verifying capacity. The
// capacity-gated insert runs transactionally in the store, so the oracle
// pre-check here only short-circuits the obvious sold-out case.
func (l *Ledger) IssueTicket(ctx context.Context, p IssueParams) (*models.Ticket, error) {
	if p.Event.Cancelled {
		return nil, ErrEventCancelled
	}

	switch p.Provider {
	case models.ProviderFree:
		existing, err := l.store.GetActiveTicketByUserAndEvent(ctx, p.User.UserID, p.Event.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, storage.ErrTicketNotFound) {
			return nil, fmt.Errorf("lookup existing ticket: %w", err)
		}
	case models.ProviderPaystack:
		if p.Reference == "" {
			return nil, fmt.Errorf("%w: reference is required for paid tickets", ErrBadMetadata)
		}
		if _, err := l.store.GetTicketByReference(ctx, p.Reference); err == nil {
			return nil, ErrAlreadyProcessed
		} else if !errors.Is(err, storage.ErrTicketNotFound) {
			return nil, fmt.Errorf("lookup reference: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", p.Provider)
	}

	if room, err := l.oracle.HasRoom(ctx, p.Event); err != nil {
		return nil, err
	} else if !room {
		return nil, ErrSoldOut
	}

	ticket := &models.Ticket{
		UserID:          p.User.UserID,
		UserEmail:       p.User.Email,
		EventID:         p.Event.ID,
		AmountPaid:      p.AmountPaid,
		PaymentStatus:   p.Status,
		PaymentProvider: p.Provider,
		Reference:       p.Reference,
	}

	if _, err := l.store.CreateTicket(ctx, ticket, p.Event.TicketsAvailable); err != nil {
		return nil, fromStore(err)
	}

	l.notifyIssued(ctx, ticket, p.Event)

	return ticket, nil
}

// notifyIssued sends the holder confirmation and the organizer notification.
// The two sends are independent and run concurrently; failures are logged
// and never roll back the ticket.
func (l *Ledger) notifyIssued(ctx context.Context, ticket *models.Ticket, event *models.Event) {
	var mails []Mail

	if ticket.UserEmail != "" {
		mails = append(mails, Mail{
			To:      ticket.UserEmail,
			Subject: fmt.Sprintf("Your ticket for %s", event.Title),
			Body: fmt.Sprintf(
				"You're in! Your ticket for %s on %s at %s is confirmed.\nTicket ID: %s",
				event.Title, event.Date.Format("Jan 2, 2006"), event.Location, ticket.ID,
			),
		})
	}

	if event.CreatorEmail != "" {
		mails = append(mails, Mail{
			To:      event.CreatorEmail,
			Subject: fmt.Sprintf("New attendee for %s", event.Title),
			Body:    fmt.Sprintf("A new ticket was issued for %s (ticket %s).", event.Title, ticket.ID),
		})
	}

	var wg sync.WaitGroup
	for _, mail := range mails {
		wg.Add(1)
		go func(m Mail) {
			defer wg.Done()
			if err := l.mailer.Send(ctx, m); err != nil {
				l.log.Error("failed to send issuance email",
					slog.String("to", m.To), sl.Err(err))
			}
		}(mail)
	}
	wg.Wait()
}
