package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	analysishandler "github.com/de-tools/emotion-atlas/pkg/handlers/analysis"
	healthhandler "github.com/de-tools/emotion-atlas/pkg/handlers/health"
	messageshandler "github.com/de-tools/emotion-atlas/pkg/handlers/messages"
	atlasmiddleware "github.com/de-tools/emotion-atlas/pkg/server/middleware"
	"github.com/de-tools/emotion-atlas/pkg/services/messages"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Analyzer analysishandler.Analyzer
	Messages messages.Service
	DB       healthhandler.Pinger
	Logger   zerolog.Logger
}

type RateLimit struct {
	Disabled bool
	Requests int
	Window   time.Duration
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	RateLimit       RateLimit
	Dependencies    Dependencies
}

// ConfigureRouter builds the HTTP routes. It is separate from NewWebAPI so
// the router can be served by httptest.
func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	analysisHandler := analysishandler.NewHandler(deps.Analyzer)
	messagesHandler := messageshandler.NewHandler(deps.Messages)
	healthHandler := healthhandler.NewHandler(deps.DB)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(atlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)
	router.Use(atlasmiddleware.Metrics)
	router.Use(atlasmiddleware.CORS(config.AllowedOrigins))

	router.Get("/api/health", healthHandler.Check)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if !config.RateLimit.Disabled {
			r.Use(atlasmiddleware.RateLimit("api_v1", config.RateLimit.Requests, config.RateLimit.Window))
		}
		r.Post("/analysis", analysisHandler.Analyze)
		r.Post("/messages", messagesHandler.Create)
		r.Get("/users/{user}/history", messagesHandler.History)
		r.Get("/users/{user}/stats", messagesHandler.Stats)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(config),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
