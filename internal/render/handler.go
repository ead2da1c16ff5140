package render

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/billing/settings"
	"github.com/ledgerly-erp/ledgerly/internal/observability"
	"github.com/ledgerly-erp/ledgerly/internal/platform/httpx"
)

// Handler serves the printable form of a document.
type Handler struct {
	logger    *slog.Logger
	documents *documents.Service
	customers *customers.Service
	settings  *settings.Service
	renderer  *Renderer
	cache     *ByteCache
	metrics   *observability.Metrics
}

func NewHandler(logger *slog.Logger, docs *documents.Service, custs *customers.Service, setts *settings.Service, renderer *Renderer, cache *ByteCache, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		documents: docs,
		customers: custs,
		settings:  setts,
		renderer:  renderer,
		cache:     cache,
		metrics:   metrics,
	}
}

// MountRoutes attaches the PDF endpoint under the documents subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.DocumentPDF)
}

// DocumentPDF renders GET /documents/{id}/pdf?layout=a4|thermal.
// Customer or settings lookups failing degrade to blank sections; only
// a missing document or a broken render is an error.
func (h *Handler) DocumentPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Path", "id must be numeric")
		return
	}
	layout, err := LayoutByName(r.URL.Query().Get("layout"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "layout must be a4 or thermal")
		return
	}

	ctx := r.Context()
	doc, err := h.documents.Get(ctx, id)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "document does not exist")
			return
		}
		h.logger.Error("render: load document", slog.Int64("id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	cust, err := h.customers.Get(ctx, doc.CustomerID)
	if err != nil {
		if !errors.Is(err, customers.ErrNotFound) {
			h.logger.Warn("render: load customer", slog.Int64("id", doc.CustomerID), slog.Any("error", err))
		}
		cust = nil
	}
	company, err := h.settings.Get(ctx, doc.CompanyID)
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			h.logger.Warn("render: load settings", slog.Int64("company_id", doc.CompanyID), slog.Any("error", err))
		}
		company = nil
	}

	data, err := h.cache.GetOrRender(ctx, doc.ID, doc.UpdatedAt, layout.Name, func() ([]byte, error) {
		return h.renderer.Render(doc, cust, company, layout)
	})
	if err != nil {
		h.logger.Error("render: produce pdf", slog.Int64("id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.metrics.ObserveRender(layout.Name, string(doc.Kind))
	httpx.PDF(w, Filename(doc), data)
}
