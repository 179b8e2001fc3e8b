// Package httpserver exposes the HealthKeeper REST API over chi.
//
// All resource routes live under /api and require a bearer token issued by
// /api/auth/register or /api/auth/login. Handlers only ever read the user id
// put in the request context by the auth middleware, so one user can never
// address another user's data.
package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Users       UserService
	Records     HealthRecordService
	Medications MedicationService
	Analytics   AnalyticsService
	Exports     ExportService
	Tokens      TokenVerifier
	DB          Pinger
	Logger      logging.Logger

	CORSOrigins []string
	// Registry receives the HTTP metrics and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With("module", "http")

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := newMetrics(reg)

	h := &handler{
		users:     d.Users,
		records:   d.Records,
		meds:      d.Medications,
		analytics: d.Analytics,
		exports:   d.Exports,
		db:        d.DB,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(m.instrument)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, &APIError{
			Code:       "method_not_allowed",
			Message:    "Method not allowed",
			StatusCode: http.StatusMethodNotAllowed,
		})
	})

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(d.Tokens))

			r.Get("/auth/me", h.me)

			r.Route("/health-records", func(r chi.Router) {
				r.Post("/", h.createRecord)
				r.Get("/", h.listRecords)
				r.Get("/{id}", h.getRecord)
				r.Delete("/{id}", h.deleteRecord)
			})

			r.Route("/medications", func(r chi.Router) {
				r.Post("/", h.createMedication)
				r.Get("/", h.listMedications)
				r.Get("/{id}", h.getMedication)
				r.Put("/{id}", h.updateMedication)
				r.Delete("/{id}", h.deleteMedication)
				r.Post("/{id}/deactivate", h.deactivateMedication)
			})

			r.Get("/analytics/stats", h.stats)
			r.Get("/analytics/trends", h.trends)

			r.Post("/exports", h.export)
		})
	})

	return r
}
