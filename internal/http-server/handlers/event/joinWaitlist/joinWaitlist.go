package joinWaitlist

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

type JoinResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WaitlistJoiner
type WaitlistJoiner interface {
	Join(ctx context.Context, user models.Identity, eventID string) error
}

func New(log *slog.Logger, waitlist WaitlistJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.joinWaitlist.New"

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

		err := waitlist.Join(r.Context(), user, eventID)
		if err != nil {
			log.Error("failed to join waitlist", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, ticketing.ErrEventCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("event is cancelled"))
			case errors.Is(err, ticketing.ErrAlreadyOnWaitlist):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("already on waitlist"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to join waitlist"))
			}
			return
		}

		log.Info("joined waitlist")

		render.JSON(w, r, JoinResponse{Response: response.OK()})
	}
}
