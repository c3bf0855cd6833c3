package ticketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
	"campusevents/internal/storage"

	"github.com/google/uuid"
)

// chargeSuccess is the only gateway event type that creates tickets; all
// other event types are acknowledged and ignored.
const chargeSuccess = "charge.success"

type ReconcilerStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetActiveTicketByUserAndEvent(ctx context.Context, userID, eventID string) (*models.Ticket, error)
	GetTicketByReference(ctx context.Context, reference string) (*models.Ticket, error)
	CountActiveTickets(ctx context.Context, eventID string) (int, error)
}

// Reconciler drives the paid-ticket flow: it initiates charges at the
// gateway and applies the gateway's webhook notifications exactly once per
// reference.
type Reconciler struct {
	log     *slog.Logger
	store   ReconcilerStore
	gateway PaymentGateway
	ledger  *Ledger
	oracle  *CapacityOracle
}

func NewReconciler(log *slog.Logger, store ReconcilerStore, gateway PaymentGateway, ledger *Ledger) *Reconciler {
	return &Reconciler{
		log:     log,
		store:   store,
		gateway: gateway,
		ledger:  ledger,
		oracle:  NewCapacityOracle(store),
	}
}

// InitiatePayment validates the event and creates a pending transaction at
// the gateway. No ticket exists until the webhook confirms the charge. A
// caller who already holds an active ticket is rejected, keeping the paid
// path one-per-user like the free path.
func (r *Reconciler) InitiatePayment(ctx context.Context, user models.Identity, eventID string) (*PaymentInit, error) {
	event, err := r.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if !event.IsPaid {
		return nil, ErrNotPaidEvent
	}
	if event.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	if _, err = r.store.GetActiveTicketByUserAndEvent(ctx, user.UserID, eventID); err == nil {
		return nil, ErrAlreadyHasTicket
	} else if !errors.Is(err, storage.ErrTicketNotFound) {
		return nil, fmt.Errorf("lookup existing ticket: %w", err)
	}

	if room, err := r.oracle.HasRoom(ctx, event); err != nil {
		return nil, err
	} else if !room {
		return nil, ErrSoldOut
	}

	init, err := r.gateway.InitializeTransaction(ctx, InitParams{
		Email:       user.Email,
		AmountMinor: int64(math.Round(event.Price * 100)),
		Reference:   uuid.NewString(),
		Metadata: map[string]string{
			"user_id":    user.UserID,
			"user_email": user.Email,
			"event_id":   event.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}

	r.log.Info("payment initiated",
		slog.String("event_id", event.ID),
		slog.String("reference", init.Reference),
	)

	return init, nil
}

type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string            `json:"reference"`
		Amount    int64             `json:"amount"` // minor units
		Metadata  map[string]string `json:"metadata"`
	} `json:"data"`
}

// WebhookOutcome reports what a webhook delivery did.
type WebhookOutcome struct {
	Ignored   bool
	Duplicate bool
	Ticket    *models.Ticket
}

// HandleWebhook verifies the gateway signature over the raw request bytes
// and, for a successful charge, issues the paid ticket. Redelivery of an
// already-applied reference is acknowledged as a duplicate.
func (r *Reconciler) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookOutcome, error) {
	if !r.gateway.VerifySignature(body, signature) {
		return nil, ErrInvalidSignature
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	if payload.Event != chargeSuccess {
		r.log.Info("ignoring webhook event", slog.String("event", payload.Event))
		return &WebhookOutcome{Ignored: true}, nil
	}

	reference := payload.Data.Reference
	if reference == "" {
		return nil, fmt.Errorf("%w: reference missing", ErrBadMetadata)
	}

	// Fast path: already applied. The unique reference index in the store
	// is the durable backstop for redeliveries racing past this check.
	if _, err := r.store.GetTicketByReference(ctx, reference); err == nil {
		r.log.Info("duplicate webhook delivery", slog.String("reference", reference))
		return &WebhookOutcome{Duplicate: true}, nil
	} else if !errors.Is(err, storage.ErrTicketNotFound) {
		return nil, fmt.Errorf("lookup reference: %w", err)
	}

	userID := payload.Data.Metadata["user_id"]
	eventID := payload.Data.Metadata["event_id"]
	if userID == "" || eventID == "" {
		return nil, fmt.Errorf("%w: user_id or event_id missing", ErrBadMetadata)
	}

	event, err := r.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fromStore(err)
	}

	ticket, err := r.ledger.IssueTicket(ctx, IssueParams{
		User: models.Identity{
			UserID: userID,
			Email:  payload.Data.Metadata["user_email"],
		},
		Event:      event,
		Provider:   models.ProviderPaystack,
		AmountPaid: float64(payload.Data.Amount) / 100,
		Status:     models.PaymentPaid,
		Reference:  reference,
	})
	if errors.Is(err, ErrAlreadyProcessed) {
		return &WebhookOutcome{Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}

	r.log.Info("payment reconciled",
		slog.String("reference", reference),
		slog.String("ticket_id", ticket.ID),
	)

	return &WebhookOutcome{Ticket: ticket}, nil
}

// Refund asks the gateway to refund a reference. It returns nil on any
// failure so cancellation flows are never blocked by the gateway.
func (r *Reconciler) Refund(ctx context.Context, reference string) *RefundResult {
	result, err := r.gateway.Refund(ctx, reference)
	if err != nil {
		r.log.Error("refund failed", slog.String("reference", reference), sl.Err(err))
		return nil
	}
	return result
}
