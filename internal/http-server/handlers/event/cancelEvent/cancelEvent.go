package cancelEvent

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

type CancelEventResponse struct {
	response.Response
	TicketsCancelled int `json:"tickets_cancelled"`
	RefundsIssued    int `json:"refunds_issued"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCanceller
type EventCanceller interface {
	CancelEvent(ctx context.Context, requester models.Identity, eventID string) (*ticketing.EventCancellation, error)
}

func New(log *slog.Logger, canceller EventCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.cancelEvent.New"

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

		log = log.With(slog.String("event_id", eventID))

		result, err := canceller.CancelEvent(r.Context(), user, eventID)
		if err != nil {
			log.Error("failed to cancel event", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrForbidden):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("only the event organizer can cancel it"))
			case errors.Is(err, ticketing.ErrAlreadyCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event already cancelled"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel event"))
			}
			return
		}

		log.Info("event cancelled",
			slog.Int("tickets_cancelled", result.TicketsCancelled),
			slog.Int("refunds_issued", result.RefundsIssued),
		)

		render.JSON(w, r, CancelEventResponse{
			Response:         response.OK(),
			TicketsCancelled: result.TicketsCancelled,
			RefundsIssued:    result.RefundsIssued,
		})
	}
}
