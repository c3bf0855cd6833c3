package paystackWebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"campusevents/internal/lib/api/response"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/ticketing"

	"github.com/go-chi/render"
)

// SignatureHeader carries the gateway's HMAC-SHA512 of the request body.
const SignatureHeader = "x-paystack-signature"

type WebhookResponse struct {
	response.Response
	Result string `json:"result"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WebhookProcessor
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) (*ticketing.WebhookOutcome, error)
}

// New handles gateway callbacks. The body is consumed raw because signature
// verification runs over the exact bytes the gateway signed.
func New(log *slog.Logger, processor WebhookProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.paystackWebhook.New"

		log = log.With(slog.String("op", op))

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("failed to read webhook body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read request body"))
			return
		}

		outcome, err := processor.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
		if err != nil {
			log.Error("failed to process webhook", sl.Err(err))

			switch {
			case errors.Is(err, ticketing.ErrInvalidSignature):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid signature"))
			case errors.Is(err, ticketing.ErrBadMetadata),
				errors.Is(err, ticketing.ErrEventNotFound):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("malformed webhook payload"))
			case errors.Is(err, ticketing.ErrSoldOut),
				errors.Is(err, ticketing.ErrEventCancelled):
				// The charge succeeded upstream but the seat is gone.
				// Acknowledge so the gateway stops re-delivering; the
				// refund is an operator action driven by the log.
				log.Warn("charge succeeded for unseatable event", sl.Err(err))
				render.JSON(w, r, WebhookResponse{
					Response: response.OK(),
					Result:   "unseatable",
				})
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to process webhook"))
			}
			return
		}

		result := "processed"
		switch {
		case outcome.Ignored:
			result = "ignored"
		case outcome.Duplicate:
			result = "duplicate"
		}

		log.Info("webhook processed", slog.String("result", result))

		render.JSON(w, r, WebhookResponse{
			Response: response.OK(),
			Result:   result,
		})
	}
}
