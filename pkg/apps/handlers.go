package apps

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/twocards/platform/pkg/auth"
	"github.com/twocards/platform/pkg/types"
)

const maxBodyBytes = 1 << 20 // 1 MB

type handlersStore interface {
	Create(ctx context.Context, userID string, in types.CreateAppInput) (*types.App, error)
	ListByUser(ctx context.Context, userID string) ([]types.App, error)
}

// Handlers groups the HTTP handlers for app management. All routes require
// an authenticated user.
type Handlers struct {
	store handlersStore
	log   *slog.Logger
}

// NewHandlers creates handlers backed by the given store.
func NewHandlers(store handlersStore, log *slog.Logger) *Handlers {
	return &Handlers{store: store, log: log}
}

// RegisterRoutes mounts the app routes on r.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/apps", h.Create)
	r.Get("/apps", h.List)
}

// Create handles POST /apps. The creation response is the only place the
// secret keys are ever returned.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		types.ErrUnauthorized("Unauthorized").WriteJSON(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in types.CreateAppInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		types.ErrBadRequest("invalid JSON body").WriteJSON(w)
		return
	}
	if fields := in.Validate(); len(fields) > 0 {
		types.ErrValidation("Invalid application", fields).WriteJSON(w)
		return
	}

	app, err := h.store.Create(r.Context(), user.ID, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			types.ErrDuplicate("App keys already exist, please retry").WriteJSON(w)
			return
		}
		h.log.ErrorContext(r.Context(), "create app failed", "error", err)
		types.ErrInternal("failed to create application").WriteJSON(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"message": "Successfully created a new application",
		"app":     app,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}

// List handles GET /apps, returning the caller's apps with secrets redacted.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		types.ErrUnauthorized("Unauthorized").WriteJSON(w)
		return
	}

	list, err := h.store.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list apps failed", "error", err)
		types.ErrInternal("failed to list applications").WriteJSON(w)
		return
	}

	redacted := make([]types.App, 0, len(list))
	for _, app := range list {
		redacted = append(redacted, app.Redacted())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"message": "Successfully collected applications",
		"apps":    redacted,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}
