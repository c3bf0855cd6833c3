package myTickets

import (
	"context"
	"log/slog"
	"net/http"

	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"

	"github.com/go-chi/render"
)

type TicketsResponse struct {
	response.Response
	Tickets []models.Ticket `json:"tickets"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketLister
type TicketLister interface {
	ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error)
}

func New(log *slog.Logger, tickets TicketLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.myTickets.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		list, err := tickets.ListTicketsByUser(r.Context(), user.UserID)
		if err != nil {
			log.Error("failed to list tickets", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list tickets"))
			return
		}

		log.Info("tickets listed", slog.String("user_id", user.UserID), slog.Int("count", len(list)))

		render.JSON(w, r, TicketsResponse{
			Response: response.OK(),
			Tickets:  list,
		})
	}
}
