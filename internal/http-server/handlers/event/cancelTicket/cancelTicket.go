package cancelTicket

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

type CancelResponse struct {
	response.Response
	Ticket *models.Ticket          `json:"ticket"`
	Refund *ticketing.RefundResult `json:"refund,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketCanceller
type TicketCanceller interface {
	CancelTicket(ctx context.Context, requester models.Identity, ticketID string) (*ticketing.TicketCancellation, error)
}

func New(log *slog.Logger, canceller TicketCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.cancelTicket.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		ticketID := chi.URLParam(r, "ticketId")
		if ticketID == "" {
			log.Error("ticket id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("ticket id is required"))
			return
		}

		log = log.With(slog.String("ticket_id", ticketID))

		result, err := canceller.CancelTicket(r.Context(), user, ticketID)
		if err != nil {
			log.Error("failed to cancel ticket", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrTicketNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("ticket not found"))
			case errors.Is(err, ticketing.ErrForbidden):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("not your ticket"))
			case errors.Is(err, ticketing.ErrAlreadyCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("ticket already cancelled"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel ticket"))
			}
			return
		}

		log.Info("ticket cancelled", slog.Bool("refunded", result.Refund != nil))

		render.JSON(w, r, CancelResponse{
			Response: response.OK(),
			Ticket:   result.Ticket,
			Refund:   result.Refund,
		})
	}
}
