package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/http/middleware"
	"github.com/rs/zerolog/log"
)

type RouterConfig struct {
	Transactions *TransactionHandler
	Accounts     *AccountHandler
	// Idempotency may be nil, which disables Idempotency-Key replay.
	Idempotency    gateway.IdempotencyRepository
	JWTSecret      []byte
	RequestTimeout time.Duration
	// Ready reports whether backing services are reachable.
	Ready func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics)
	router.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	idempotent := func(next http.Handler) http.Handler { return next }
	if cfg.Idempotency != nil {
		idempotent = middleware.Idempotency(cfg.Idempotency)
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health response")
		}
	})
	router.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				log.Warn().Err(err).Msg("readiness check failed")
				respondError(w, http.StatusServiceUnavailable, "NOT_READY", err.Error())
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/transactions", func(r chi.Router) {
		r.Get("/", cfg.Transactions.List)
		r.With(idempotent).Post("/", cfg.Transactions.Create)
		r.Get("/{id}", cfg.Transactions.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(cfg.JWTSecret))
			r.Post("/{id}/release", cfg.Transactions.Release)
			r.Post("/{id}/refund", cfg.Transactions.Refund)
		})
	})

	router.Route("/accounts", func(r chi.Router) {
		r.Get("/", cfg.Accounts.List)
		r.Post("/", cfg.Accounts.Open)
		r.Get("/{id}", cfg.Accounts.Get)
		r.With(idempotent).Post("/{id}/deposit", cfg.Accounts.Deposit)
		r.With(idempotent).Post("/{id}/withdraw", cfg.Accounts.Withdraw)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(cfg.JWTSecret))
			r.Post("/{id}/freeze", cfg.Accounts.Freeze)
			r.Post("/{id}/unfreeze", cfg.Accounts.Unfreeze)
			r.Post("/{id}/close", cfg.Accounts.Close)
		})
	})

	return router
}
