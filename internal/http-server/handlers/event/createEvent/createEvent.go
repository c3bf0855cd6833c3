package createEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventRequest struct {
	Title            string    `json:"title" validate:"required,min=3"`
	Description      string    `json:"description" validate:"required,min=10"`
	Location         string    `json:"location" validate:"required,min=3"`
	Date             time.Time `json:"date" validate:"required"`
	Time             string    `json:"time" validate:"required"`
	Category         string    `json:"category" validate:"required,oneof=Anime Sports Music Academic Religious Social Other"`
	Image            string    `json:"image"`
	IsPaid           bool      `json:"is_paid"`
	Price            float64   `json:"price"`
	TicketsAvailable *int      `json:"tickets_available"`
}

type EventResponse struct {
	response.Response
	EventID string `json:"event_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, event *models.Event) (string, error)
}

func New(log *slog.Logger, event EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log = log.With(slog.String("op", op))

		user, ok := identity.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		if req.IsPaid && req.Price <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("paid events require a price greater than zero"))
			return
		}

		if req.TicketsAvailable != nil && *req.TicketsAvailable < 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("tickets_available cannot be negative"))
			return
		}

		eventID, err := event.CreateEvent(r.Context(), &models.Event{
			Title:            req.Title,
			Description:      req.Description,
			Location:         req.Location,
			Date:             req.Date,
			Time:             req.Time,
			Category:         models.Category(req.Category),
			Image:            req.Image,
			CreatedBy:        user.UserID,
			CreatorEmail:     user.Email,
			IsPaid:           req.IsPaid,
			Price:            req.Price,
			TicketsAvailable: req.TicketsAvailable,
		})
		if err != nil {
			log.Error("failed to add event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add event"))

			return
		}

		log.Info("event added", slog.String("id", eventID))

		responseOK(w, r, eventID)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, eventID string) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		EventID:  eventID,
	})
}
