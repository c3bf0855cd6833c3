package payEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
	"campusevents/internal/ticketing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type PayResponse struct {
	response.Response
	PaymentURL string `json:"payment_url"`
	Reference  string `json:"reference"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PaymentInitiator
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, user models.Identity, eventID string) (*ticketing.PaymentInit, error)
}

func New(log *slog.Logger, payments PaymentInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.payEvent.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		log = log.With(slog.String("event_id", eventID), slog.String("user_id", user.UserID))

		init, err := payments.InitiatePayment(r.Context(), user, eventID)
		if err != nil {
			log.Error("failed to initiate payment", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrEventCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is cancelled"))
			case errors.Is(err, ticketing.ErrNotPaidEvent):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("event is free, use rsvp"))
			case errors.Is(err, ticketing.ErrInvalidPrice):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("event price must be greater than zero"))
			case errors.Is(err, ticketing.ErrAlreadyHasTicket):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("you already have a ticket for this event"))
			case errors.Is(err, ticketing.ErrSoldOut):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is sold out"))
			default:
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("failed to initiate payment"))
			}
			return
		}

		log.Info("payment initiated", slog.String("reference", init.Reference))

		render.JSON(w, r, PayResponse{
			Response:   response.OK(),
			PaymentURL: init.AuthorizationURL,
			Reference:  init.Reference,
		})
	}
}
