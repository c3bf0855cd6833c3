package rsvpEvent

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

type RSVPResponse struct {
	response.Response
	Ticket *models.Ticket `json:"ticket"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketIssuer
type TicketIssuer interface {
	RSVP(ctx context.Context, user models.Identity, eventID string) (*models.Ticket, error)
}

func New(log *slog.Logger, issuer TicketIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.rsvpEvent.New"

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

		ticket, err := issuer.RSVP(r.Context(), user, eventID)
		if err != nil {
			log.Error("failed to rsvp", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrEventCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is cancelled"))
			case errors.Is(err, ticketing.ErrSoldOut):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is sold out"))
			case errors.Is(err, ticketing.ErrNotPaidEvent):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("this event requires payment"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to rsvp"))
			}
			return
		}

		log.Info("rsvp confirmed", slog.String("ticket_id", ticket.ID))

		render.JSON(w, r, RSVPResponse{
			Response: response.OK(),
			Ticket:   ticket,
		})
	}
}
