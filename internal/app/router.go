package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/billing/gst"
	"github.com/ledgerly-erp/ledgerly/internal/billing/payments"
	"github.com/ledgerly-erp/ledgerly/internal/billing/settings"
	"github.com/ledgerly-erp/ledgerly/internal/observability"
	"github.com/ledgerly-erp/ledgerly/internal/render"
	"github.com/ledgerly-erp/ledgerly/jobs"
	"github.com/ledgerly-erp/ledgerly/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CustomerHandler *customers.Handler
	SettingsHandler *settings.Handler
	DocumentHandler *documents.Handler
	PaymentHandler  *payments.Handler
	GSTHandler      *gst.Handler
	RenderHandler   *render.Handler
	ReportHandler   *report.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Ledgerly defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/customers", params.CustomerHandler.MountRoutes)
	r.Route("/settings", params.SettingsHandler.MountRoutes)
	r.Route("/documents", func(r chi.Router) {
		params.DocumentHandler.MountRoutes(r)
		params.PaymentHandler.MountInvoiceRoutes(r)
		params.RenderHandler.MountRoutes(r)
	})
	r.Route("/payments", params.PaymentHandler.MountRoutes)
	r.Route("/gst", params.GSTHandler.MountRoutes)
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
