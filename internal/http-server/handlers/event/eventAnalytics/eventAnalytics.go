package eventAnalytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
	"campusevents/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type AnalyticsResponse struct {
	response.Response
	Analytics *models.Analytics `json:"analytics"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AnalyticsReader
type AnalyticsReader interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	EventAnalytics(ctx context.Context, eventID string) (*models.Analytics, error)
}

func New(log *slog.Logger, store AnalyticsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.eventAnalytics.New"

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

		event, err := store.GetEvent(r.Context(), eventID)
		if err != nil {
			log.Error("failed to get event", sl.Err(err))

			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get event"))
			return
		}

		if event.CreatedBy != user.UserID {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only the event organizer can view analytics"))
			return
		}

		analytics, err := store.EventAnalytics(r.Context(), eventID)
		if err != nil {
			log.Error("failed to compute analytics", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to compute analytics"))
			return
		}

		analytics.EventCancelled = event.Cancelled
		if !event.Unlimited() {
			remaining := *event.TicketsAvailable - analytics.TicketsSold
			if remaining < 0 {
				remaining = 0
			}
			analytics.Remaining = &remaining
		}

		log.Info("analytics computed", slog.String("event_id", eventID))

		render.JSON(w, r, AnalyticsResponse{
			Response:  response.OK(),
			Analytics: analytics,
		})
	}
}
