package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusevents/internal/config"
	"campusevents/internal/http-server/handlers/event/cancelEvent"
	"campusevents/internal/http-server/handlers/event/cancelTicket"
	"campusevents/internal/http-server/handlers/event/checkinTicket"
	"campusevents/internal/http-server/handlers/event/createEvent"
	"campusevents/internal/http-server/handlers/event/downloadTicket"
	"campusevents/internal/http-server/handlers/event/eventAnalytics"
	"campusevents/internal/http-server/handlers/event/eventAttendees"
	"campusevents/internal/http-server/handlers/event/getAllEvents"
	"campusevents/internal/http-server/handlers/event/getEventInfo"
	"campusevents/internal/http-server/handlers/event/joinWaitlist"
	"campusevents/internal/http-server/handlers/event/myTickets"
	"campusevents/internal/http-server/handlers/event/payEvent"
	"campusevents/internal/http-server/handlers/event/paystackWebhook"
	"campusevents/internal/http-server/handlers/event/rsvpEvent"
	"campusevents/internal/http-server/handlers/event/ticketQR"
	"campusevents/internal/http-server/handlers/event/viewWaitlist"
	"campusevents/internal/http-server/middleware/identity"
	"campusevents/internal/http-server/middleware/mwlogger"
	"campusevents/internal/lib/logger/handlers/slogpretty"
	"campusevents/internal/lib/logger/sl"
	"campusevents/internal/mailer"
	"campusevents/internal/paystack"
	"campusevents/internal/storage/postgres"
	"campusevents/internal/ticketing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting campus events", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	smtp := mailer.New(&cfg.SMTP)
	gateway := paystack.New(&cfg.Paystack)

	ledger := ticketing.NewLedger(log, storage, smtp)
	reconciler := ticketing.NewReconciler(log, storage, gateway, ledger)
	waitlist := ticketing.NewWaitlistManager(log, storage, smtp, cfg.App.BaseURL)
	orchestrator := ticketing.NewOrchestrator(log, storage, reconciler, waitlist, smtp)
	gate := ticketing.NewGate(log, storage)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/events", func(r chi.Router) {
		// Public: catalog browsing and the signature-verified gateway callback.
		r.Get("/", getAllEvents.New(log, storage))
		r.Post("/paystack/webhook", paystackWebhook.New(log, reconciler))
		r.Get("/{id}", getEventInfo.New(log, storage))

		r.Group(func(r chi.Router) {
			r.Use(identity.Require)

			r.Post("/", createEvent.New(log, storage))
			r.Post("/{id}/rsvp", rsvpEvent.New(log, ledger))
			r.Post("/{id}/pay", payEvent.New(log, reconciler))
			r.Post("/{id}/cancel", cancelEvent.New(log, orchestrator))
			r.Post("/{id}/checkin", checkinTicket.New(log, gate))
			r.Get("/{id}/analytics", eventAnalytics.New(log, storage))
			r.Get("/{id}/attendees", eventAttendees.New(log, storage))
			r.Post("/{id}/waitlist", joinWaitlist.New(log, waitlist))
			r.Get("/{id}/waitlist", viewWaitlist.New(log, waitlist))

			r.Get("/tickets/my", myTickets.New(log, storage))
			r.Get("/tickets/{ticketId}/qr", ticketQR.New(log, storage))
			r.Get("/tickets/{ticketId}/download", downloadTicket.New(log, storage))
			r.Post("/tickets/{ticketId}/cancel", cancelTicket.New(log, orchestrator))
		})
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
