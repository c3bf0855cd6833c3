package viewWaitlist

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

type WaitlistResponse struct {
	response.Response
	Waitlist []models.WaitlistEntry `json:"waitlist"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WaitlistViewer
type WaitlistViewer interface {
	Entries(ctx context.Context, requester models.Identity, eventID string) ([]models.WaitlistEntry, error)
}

func New(log *slog.Logger, waitlist WaitlistViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.viewWaitlist.New"

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

		entries, err := waitlist.Entries(r.Context(), user, eventID)
		if err != nil {
			log.Error("failed to view waitlist", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrForbidden):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("only the event organizer can view the waitlist"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to view waitlist"))
			}
			return
		}

		log.Info("waitlist viewed", slog.String("event_id", eventID), slog.Int("size", len(entries)))

		render.JSON(w, r, WaitlistResponse{
			Response: response.OK(),
			Waitlist: entries,
		})
	}
}
