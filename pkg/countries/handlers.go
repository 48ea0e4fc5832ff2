package countries

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/twocards/platform/pkg/types"
)

// Handlers exposes the country reference data over HTTP.
type Handlers struct{}

// NewHandlers creates the country handlers.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// RegisterRoutes mounts the country routes on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/countries/supported", h.Supported)
	r.Get("/countries/{code}/fiscal-year", h.FiscalYear)
}

// Supported handles GET /countries/supported.
func (h *Handlers) Supported(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"message":   "Successfully collected countries",
		"countries": SupportedList(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}

// FiscalYear handles GET /countries/{code}/fiscal-year.
func (h *Handlers) FiscalYear(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	fy, err := FiscalYearByCode(code)
	if err != nil {
		types.ErrNotFound("Unsupported country").WriteJSON(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"fiscalYear": fy}); err != nil {
		slog.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}
