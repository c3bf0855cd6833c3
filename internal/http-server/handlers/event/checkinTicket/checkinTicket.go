package checkinTicket

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
	"github.com/go-playground/validator/v10"
)

type CheckinRequest struct {
	TicketID string `json:"ticket_id" validate:"required"`
}

type CheckinResponse struct {
	response.Response
	Ticket *models.Ticket `json:"ticket"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketChecker
type TicketChecker interface {
	CheckIn(ctx context.Context, requester models.Identity, eventID, ticketID string) (*models.Ticket, error)
}

func New(log *slog.Logger, gate TicketChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.checkinTicket.New"

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

		var req CheckinRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		log = log.With(slog.String("event_id", eventID), slog.String("ticket_id", req.TicketID))

		ticket, err := gate.CheckIn(r.Context(), user, eventID, req.TicketID)
		if err != nil {
			log.Error("failed to check in ticket", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrTicketNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("ticket not found for this event"))
			case errors.Is(err, ticketing.ErrForbidden):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("only the event organizer can check in tickets"))
			case errors.Is(err, ticketing.ErrAlreadyCheckedIn):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("ticket already checked in"))
			case errors.Is(err, ticketing.ErrTicketCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("ticket is cancelled"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to check in ticket"))
			}
			return
		}

		log.Info("ticket checked in")

		render.JSON(w, r, CheckinResponse{
			Response: response.OK(),
			Ticket:   ticket,
		})
	}
}
