package report

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/platform/httpx"
)

// Handler manages report endpoints.
type Handler struct {
	client    *Client
	statement *StatementBuilder
	logger    *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(client *Client, statement *StatementBuilder, logger *slog.Logger) *Handler {
	return &Handler{client: client, statement: statement, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Get("/statement/{customerID}", h.customerStatement)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Converter Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// customerStatement serves GET /report/statement/{customerID}?from&to.
func (h *Handler) customerStatement(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Path", "customerID must be numeric")
		return
	}

	var from, to time.Time
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "from must be YYYY-MM-DD")
			return
		}
	}
	if raw := q.Get("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "to must be YYYY-MM-DD")
			return
		}
	}

	pdf, err := h.statement.Build(r.Context(), customerID, from, to)
	if err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer does not exist")
			return
		}
		h.logger.Error("build customer statement", slog.Int64("customer_id", customerID), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Statement Failed", "")
		return
	}
	httpx.PDF(w, "statement-"+strconv.FormatInt(customerID, 10)+".pdf", pdf)
}
