package ticketing

import (
	"context"
	"testing"

	"campusevents/internal/lib/logger/handlers/slogdiscard"
	"campusevents/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateFixture(t *testing.T) (*memStore, *Gate, *Ledger) {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	store := newMemStore()
	return store, NewGate(log, store), NewLedger(log, store, &fakeMailer{})
}

func TestGate_CheckIn(t *testing.T) {
	store, gate, ledger := newGateFixture(t)

	organizer := models.Identity{UserID: "organizer-1"}
	event := testEvent(store, nil)

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.NoError(t, err)

	checked, err := gate.CheckIn(context.Background(), organizer, event.ID, ticket.ID)
	require.NoError(t, err)
	assert.True(t, checked.CheckedIn)

	stored, err := store.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckedIn)
}

func TestGate_SecondScanConflicts(t *testing.T) {
	store, gate, ledger := newGateFixture(t)

	organizer := models.Identity{UserID: "organizer-1"}
	event := testEvent(store, nil)

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.NoError(t, err)

	_, err = gate.CheckIn(context.Background(), organizer, event.ID, ticket.ID)
	require.NoError(t, err)

	_, err = gate.CheckIn(context.Background(), organizer, event.ID, ticket.ID)
	require.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestGate_OrganizerOnly(t *testing.T) {
	store, gate, ledger := newGateFixture(t)

	event := testEvent(store, nil)

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.NoError(t, err)

	_, err = gate.CheckIn(context.Background(), models.Identity{UserID: "u1"}, event.ID, ticket.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGate_WrongEventTicketNotFound(t *testing.T) {
	store, gate, ledger := newGateFixture(t)

	organizer := models.Identity{UserID: "organizer-1"}
	eventA := testEvent(store, nil)
	eventB := testEvent(store, func(e *models.Event) {
		e.Title = "Chess Finals"
	})

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, eventA.ID)
	require.NoError(t, err)

	// a ticket for event A cannot pass the door of event B
	_, err = gate.CheckIn(context.Background(), organizer, eventB.ID, ticket.ID)
	require.ErrorIs(t, err, ErrTicketNotFound)

	stored, err := store.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.False(t, stored.CheckedIn)
}

func TestGate_CancelledTicketRejected(t *testing.T) {
	store, gate, ledger := newGateFixture(t)

	organizer := models.Identity{UserID: "organizer-1"}
	event := testEvent(store, nil)

	ticket, err := ledger.RSVP(context.Background(), models.Identity{UserID: "u1"}, event.ID)
	require.NoError(t, err)
	require.NoError(t, store.MarkTicketCancelled(context.Background(), ticket.ID))

	_, err = gate.CheckIn(context.Background(), organizer, event.ID, ticket.ID)
	require.ErrorIs(t, err, ErrTicketCancelled)
}

func TestGate_MissingEventAndTicket(t *testing.T) {
	store, gate, _ := newGateFixture(t)

	organizer := models.Identity{UserID: "organizer-1"}

	_, err := gate.CheckIn(context.Background(), organizer, "missing", "whatever")
	require.ErrorIs(t, err, ErrEventNotFound)

	event := testEvent(store, nil)

	_, err = gate.CheckIn(context.Background(), organizer, event.ID, "missing")
	require.ErrorIs(t, err, ErrTicketNotFound)
}
