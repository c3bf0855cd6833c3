package downloadTicket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"
	"campusevents/internal/storage"
	"campusevents/internal/ticketdoc"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TicketReader
type TicketReader interface {
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// New streams the printable ticket PDF. Only the ticket holder may fetch it.
func New(log *slog.Logger, store TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.downloadTicket.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		ticketID := chi.URLParam(r, "ticketId")
		if ticketID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("ticket id is required"))
			return
		}

		ticket, err := store.GetTicket(r.Context(), ticketID)
		if err != nil {
			log.Error("failed to get ticket", sl.Err(err))

			if errors.Is(err, storage.ErrTicketNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("ticket not found"))
				return
			}

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get ticket"))
			return
		}

		if ticket.UserID != user.UserID {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("not your ticket"))
			return
		}

		event, err := store.GetEvent(r.Context(), ticket.EventID)
		if err != nil {
			log.Error("failed to get event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get event"))
			return
		}

		pdf, err := ticketdoc.PDF(ticket, event)
		if err != nil {
			log.Error("failed to render pdf", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to render ticket"))
			return
		}

		log.Info("ticket pdf rendered", slog.String("ticket_id", ticket.ID))

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.pdf", ticket.ID))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}
