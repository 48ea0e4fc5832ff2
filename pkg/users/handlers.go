package users

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

type handlersService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*types.User, error)
	Confirm(ctx context.Context, id string) (*types.User, error)
}

type tokenIssuer interface {
	Issue(user *types.User, ac auth.AppContext) (string, error)
}

// Handlers groups the HTTP handlers for authentication and accounts.
type Handlers struct {
	svc    handlersService
	tokens tokenIssuer
	log    *slog.Logger
}

// NewHandlers creates handlers backed by the given service.
func NewHandlers(svc handlersService, tokens tokenIssuer, log *slog.Logger) *Handlers {
	return &Handlers{svc: svc, tokens: tokens, log: log}
}

// RegisterRoutes mounts the routes reachable with an app key alone.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/auth/confirm", h.Confirm)
}

// RegisterProtected mounts the routes that additionally require a bearer
// token.
func (h *Handlers) RegisterProtected(r chi.Router) {
	r.Get("/user", h.CurrentUser)
}

// Register handles POST /auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		types.ErrBadRequest("invalid JSON body").WriteJSON(w)
		return
	}

	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		h.writeRegisterError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user, auth.FromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issue failed", "error", err)
		types.ErrInternal("failed to issue token").WriteJSON(w)
		return
	}

	h.writeAuthResponse(w, r, "Successfully created new account", user, token)
}

// LoginInput is the payload for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		types.ErrBadRequest("invalid JSON body").WriteJSON(w)
		return
	}
	if in.Email == "" || in.Password == "" {
		types.ErrInvalidCredentials("User information incorrect").WriteJSON(w)
		return
	}

	user, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			types.ErrInvalidCredentials("User information incorrect").WriteJSON(w)
			return
		}
		h.log.ErrorContext(r.Context(), "login failed", "error", err)
		types.ErrInternal("failed to log in").WriteJSON(w)
		return
	}

	token, err := h.tokens.Issue(user, auth.FromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "token issue failed", "error", err)
		types.ErrInternal("failed to issue token").WriteJSON(w)
		return
	}

	h.writeAuthResponse(w, r, "Successfully logged in", user, token)
}

// Confirm handles GET /auth/confirm?id=<userID>.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		types.ErrMissingInput("You need to include a user id.").WriteJSON(w)
		return
	}

	user, err := h.svc.Confirm(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			types.ErrMissingInput("No user found").WriteJSON(w)
			return
		}
		h.log.ErrorContext(r.Context(), "confirm failed", "error", err)
		types.ErrInternal("failed to confirm email address").WriteJSON(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"message": "Email address confirmed",
		"user":    user,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}

// CurrentUser handles GET /user, returning the bearer token's account.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		types.ErrUnauthorized("Unauthorized").WriteJSON(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"user": user}); err != nil {
		h.log.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}

func (h *Handlers) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	var vf *ValidationFailed
	switch {
	case errors.As(err, &vf):
		types.ErrValidation("Invalid registration", vf.Fields).WriteJSON(w)
	case errors.Is(err, ErrDuplicateEmail):
		types.ErrDuplicate("A user with that email address already exists").WriteJSON(w)
	default:
		var df *DeliveryFailed
		if errors.As(err, &df) {
			h.log.ErrorContext(r.Context(), "confirmation email failed", "error", err)
			types.ErrDelivery("There was an issue sending the email").WriteJSON(w)
			return
		}
		h.log.ErrorContext(r.Context(), "registration failed", "error", err)
		types.ErrInternal("failed to create account").WriteJSON(w)
	}
}

func (h *Handlers) writeAuthResponse(w http.ResponseWriter, r *http.Request, message string, user *types.User, token string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		"user":    user,
		"token":   token,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "response encode failed", "error", err)
	}
}
