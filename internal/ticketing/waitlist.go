package ticketing

import (
	"context"
	"fmt"
	"log/slog"

	"campusevents/internal/models"
)

type WaitlistStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	JoinWaitlist(ctx context.Context, entry models.WaitlistEntry) error
	PopWaitlistHead(ctx context.Context, eventID string) (*models.WaitlistEntry, error)
	ListWaitlist(ctx context.Context, eventID string) ([]models.WaitlistEntry, error)
}

// WaitlistManager keeps a strict FIFO queue of deferred attendees per event
// and notifies the head when a seat frees up. Promotion never issues a
// ticket; claiming the seat is the promoted user's follow-up action.
type WaitlistManager struct {
	log     *slog.Logger
	store   WaitlistStore
	mailer  Mailer
	baseURL string
}

func NewWaitlistManager(log *slog.Logger, store WaitlistStore, mailer Mailer, baseURL string) *WaitlistManager {
	return &WaitlistManager{
		log:     log,
		store:   store,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

// Join appends the user to the event's waitlist. Joining twice reports
// ErrAlreadyOnWaitlist and changes nothing.
func (m *WaitlistManager) Join(ctx context.Context, user models.Identity, eventID string) error {
	event, err := m.store.GetEvent(ctx, eventID)
	if err != nil {
		return fromStore(err)
	}

	if event.Cancelled {
		return ErrEventCancelled
	}

	err = m.store.JoinWaitlist(ctx, models.WaitlistEntry{
		EventID:   event.ID,
		UserID:    user.UserID,
		UserEmail: user.Email,
	})
	if err != nil {
		return fromStore(err)
	}

	m.log.Info("joined waitlist",
		slog.String("event_id", event.ID),
		slog.String("user_id", user.UserID),
	)

	return nil
}

// PromoteNext dequeues the waitlist head, if any, and sends a time-bounded
// claim notification. An empty waitlist is not an error.
func (m *WaitlistManager) PromoteNext(ctx context.Context, event *models.Event) error {
	entry, err := m.store.PopWaitlistHead(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("pop waitlist head: %w", err)
	}
	if entry == nil {
		return nil
	}

	m.log.Info("promoting waitlist head",
		slog.String("event_id", event.ID),
		slog.String("user_id", entry.UserID),
	)

	if entry.UserEmail == "" {
		return nil
	}

	mail := Mail{
		To:      entry.UserEmail,
		Subject: fmt.Sprintf("A spot opened up for %s", event.Title),
		Body: fmt.Sprintf(
			"Good news! A spot just opened up for %s on %s.\n"+
				"Claim your spot within 24 hours: %s/events/%s",
			event.Title, event.Date.Format("Jan 2, 2006"), m.baseURL, event.ID,
		),
	}

	if err := m.mailer.Send(ctx, mail); err != nil {
		m.log.Error("failed to send claim notification",
			slog.String("to", entry.UserEmail),
			slog.String("event_id", event.ID),
		)
	}

	return nil
}

// Entries returns the full queue in order; only the event's organizer may
// see it.
func (m *WaitlistManager) Entries(ctx context.Context, requester models.Identity, eventID string) ([]models.WaitlistEntry, error) {
	event, err := m.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	if event.CreatedBy != requester.UserID {
		return nil, ErrForbidden
	}

	return m.store.ListWaitlist(ctx, eventID)
}
