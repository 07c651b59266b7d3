package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-maturity/internal/api/http"
	"github.com/mind-engage/mindengage-maturity/internal/auth"
	authmw "github.com/mind-engage/mindengage-maturity/internal/auth/middleware"
	"github.com/mind-engage/mindengage-maturity/internal/logging"
	"github.com/mind-engage/mindengage-maturity/internal/rbac"
)

func newRouter(a *app) http.Handler {
	cfg := a.cfg
	log := a.log

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(log), middleware.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Report-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Admin login needs ENABLE_LOCAL_AUTH and an admin password hash.
	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(a.auth, cfg))
	}
	if cfg.EnableGuestAuth {
		r.Post("/auth/guest", auth.GuestLoginHandler(a.auth, cfg))
	}

	r.Get("/domains", api.DomainsHandler())
	r.Get("/healthz", api.HealthHandler())
	r.Get("/readyz", api.ReadyHandler(a.db))
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(a.auth))

		pr.With(rbac.Require(rbac.PermAssessmentView)).
			Get("/assessment", api.GetAssessmentHandler(a.assessments, log))
		pr.With(rbac.Require(rbac.PermAssessmentEdit)).
			Put("/assessment", api.ReplaceAssessmentHandler(a.assessments, log))
		pr.With(rbac.Require(rbac.PermAssessmentEdit)).
			Delete("/assessment", api.ResetAssessmentHandler(a.assessments, log))
		pr.With(rbac.Require(rbac.PermAssessmentView)).
			Get("/assessment/summary", api.SummaryHandler(a.assessments, log))
		pr.With(rbac.Require(rbac.PermAssessmentView)).
			Get("/assessment/history", api.HistoryHandler(a.events, log))
		pr.With(rbac.Require(rbac.PermAssessmentEdit)).
			Put("/assessment/{domainID}", api.SetDomainHandler(a.assessments, log))
		pr.With(rbac.Require(rbac.PermAssessmentEdit)).
			Put("/assessment/{domainID}/{dimension}", api.SetRatingHandler(a.assessments, log))

		pr.With(rbac.Require(rbac.PermPlaybookView)).
			Get("/playbook", api.PlaybookIndexHandler(a.playbook))
		pr.With(rbac.Require(rbac.PermPlaybookView)).
			Get("/playbook/{domainID}/{band}", api.PlaybookPageHandler(a.playbook))

		pr.With(rbac.Require(rbac.PermReportExport)).
			Post("/reports", api.ExportReportHandler(a.assessments, a.reports, log))
		if a.archive != nil {
			pr.With(rbac.Require(rbac.PermReportArchive)).
				Get("/reports", api.ListReportsHandler(a.archive, log))
			pr.With(rbac.Require(rbac.PermReportArchive)).
				Get("/reports/{name}", api.DownloadReportHandler(a.archive, log))
		}

		pr.Route("/admin/playbook", func(ar chi.Router) {
			ar.Use(rbac.Require(rbac.PermPlaybookAdmin))
			ar.Get("/overrides", api.ListOverridesHandler(a.playbook))
			ar.Post("/reload", api.ReloadPlaybookHandler(a.playbook))
			ar.Put("/{domainID}/{band}", api.PutOverrideHandler(a.playbook, log))
			ar.Delete("/{domainID}/{band}", api.DeleteOverrideHandler(a.playbook, log))
		})
	})

	return r
}
