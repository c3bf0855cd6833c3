package ticketing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"campusevents/internal/lib/logger/handlers/slogdiscard"
	"campusevents/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(store *memStore, mutate func(*models.Event)) *models.Event {
	event := &models.Event{
		Title:        "Freshers Night",
		Location:     "Main Auditorium",
		Date:         time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Time:         "18:00",
		Category:     models.CategorySocial,
		CreatedBy:    "organizer-1",
		CreatorEmail: "organizer@campus.edu",
	}
	if mutate != nil {
		mutate(event)
	}
	return store.addEvent(event)
}

func TestLedger_RSVPIsIdempotent(t *testing.T) {
	store := newMemStore()
	mailer := &fakeMailer{}
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, mailer)

	event := testEvent(store, nil)
	user := models.Identity{UserID: "u1", Email: "u1@campus.edu"}

	first, err := ledger.RSVP(context.Background(), user, event.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, models.ProviderFree, first.PaymentProvider)
	assert.Equal(t, models.PaymentPaid, first.PaymentStatus)

	second, err := ledger.RSVP(context.Background(), user, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := store.CountActiveTickets(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// only the first issuance notifies
	assert.Len(t, mailer.sentTo("u1@campus.edu"), 1)
}

func TestLedger_RSVPRejectsPaidEvent(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	event := testEvent(store, func(e *models.Event) {
		e.IsPaid = true
		e.Price = 25
	})

	_, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.ErrorIs(t, err, ErrNotPaidEvent)
}

func TestLedger_RSVPEventNotFound(t *testing.T) {
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), newMemStore(), &fakeMailer{})

	_, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, "missing")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestLedger_CapacityIsNeverExceeded(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	const seats = 3
	event := testEvent(store, func(e *models.Event) {
		e.TicketsAvailable = intPtr(seats)
	})

	for i := 0; i < seats; i++ {
		user := models.Identity{UserID: fmt.Sprintf("u%d", i)}
		_, err := ledger.RSVP(context.Background(), user, event.ID)
		require.NoError(t, err)
	}

	_, err := ledger.RSVP(context.Background(), models.Identity{UserID: "late"}, event.ID)
	require.ErrorIs(t, err, ErrSoldOut)

	count, err := store.CountActiveTickets(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, seats, count)
}

func TestLedger_UnlimitedEventAlwaysHasRoom(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	event := testEvent(store, nil)

	for i := 0; i < 50; i++ {
		user := models.Identity{UserID: fmt.Sprintf("u%d", i)}
		_, err := ledger.RSVP(context.Background(), user, event.ID)
		require.NoError(t, err)
	}
}

func TestLedger_IssueTicketRejectsCancelledEvent(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	event := testEvent(store, func(e *models.Event) {
		e.Cancelled = true
	})

	_, err := ledger.IssueTicket(context.Background(), IssueParams{
		User:     models.Identity{UserID: "u1"},
		Event:    event,
		Provider: models.ProviderFree,
		Status:   models.PaymentPaid,
	})
	require.ErrorIs(t, err, ErrEventCancelled)
}

func TestLedger_PaidIssuanceDeduplicatesByReference(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	event := testEvent(store, func(e *models.Event) {
		e.IsPaid = true
		e.Price = 10
	})

	params := IssueParams{
		User:       models.Identity{UserID: "u1", Email: "u1@campus.edu"},
		Event:      event,
		Provider:   models.ProviderPaystack,
		AmountPaid: 10,
		Status:     models.PaymentPaid,
		Reference:  "ref-123",
	}

	_, err := ledger.IssueTicket(context.Background(), params)
	require.NoError(t, err)

	_, err = ledger.IssueTicket(context.Background(), params)
	require.ErrorIs(t, err, ErrAlreadyProcessed)

	count, err := store.CountActiveTickets(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLedger_MailFailureDoesNotFailIssuance(t *testing.T) {
	store := newMemStore()
	mailer := &fakeMailer{failWith: fmt.Errorf("smtp down")}
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, mailer)

	event := testEvent(store, nil)

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1", Email: "u1@campus.edu"}, event.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
}

func TestLedger_CancelledTicketFreesTheSeat(t *testing.T) {
	store := newMemStore()
	ledger := NewLedger(slogdiscard.NewDiscardLogger(), store, &fakeMailer{})

	event := testEvent(store, func(e *models.Event) {
		e.TicketsAvailable = intPtr(1)
	})

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.NoError(t, err)

	_, err = ledger.RSVP(context.Background(), models.Identity{UserID: "u2"}, event.ID)
	require.ErrorIs(t, err, ErrSoldOut)

	require.NoError(t, store.MarkTicketCancelled(context.Background(), ticket.ID))

	_, err = ledger.RSVP(context.Background(), models.Identity{UserID: "u2"}, event.ID)
	require.NoError(t, err)
}
