package apps

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/twocards/platform/pkg/auth"
	"github.com/twocards/platform/pkg/types"
)

type fakeAppStore struct {
	created []types.App
	listErr error
	dup     bool
}

func (f *fakeAppStore) Create(_ context.Context, userID string, in types.CreateAppInput) (*types.App, error) {
	if f.dup {
		return nil, ErrDuplicateKey
	}
	now := time.Now().UTC()
	app := types.App{
		ID:          "app-1",
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		TestPublic:  "pk_test_abc",
		TestSecret:  "sk_test_abc",
		LivePublic:  "pk_live_abc",
		LiveSecret:  "sk_live_abc",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.created = append(f.created, app)
	return &app, nil
}

func (f *fakeAppStore) ListByUser(_ context.Context, userID string) ([]types.App, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []types.App
	for _, a := range f.created {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestRouter(store *fakeAppStore, user *types.User) *chi.Mux {
	log := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	h := NewHandlers(store, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if user != nil {
				ctx = auth.WithUser(ctx, user)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func TestHandlers_Create(t *testing.T) {
	store := &fakeAppStore{}
	router := newTestRouter(store, &types.User{ID: "u1", Email: "a@b.com"})

	req := httptest.NewRequest(http.MethodPost, "/apps", strings.NewReader(`{"name":"Shop","description":"Webshop backend"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	var resp struct {
		Message string    `json:"message"`
		App     types.App `json:"app"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Successfully created a new application" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.App.UserID != "u1" {
		t.Errorf("app not bound to caller: %+v", resp.App)
	}
	// The creation response is the only place the secrets appear.
	if resp.App.TestSecret == "" || resp.App.LiveSecret == "" {
		t.Error("creation response must include both secret keys")
	}
}

func TestHandlers_Create_Validation(t *testing.T) {
	router := newTestRouter(&fakeAppStore{}, &types.User{ID: "u1"})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"description":"d"}`},
		{"missing description", `{"name":"Shop"}`},
		{"description too long", `{"name":"Shop","description":"` + strings.Repeat("x", 201) + `"}`},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/apps", strings.NewReader(tt.body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", tt.name, rr.Code)
		}
	}
}

func TestHandlers_Create_NoUser(t *testing.T) {
	router := newTestRouter(&fakeAppStore{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/apps", strings.NewReader(`{"name":"Shop","description":"d"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestHandlers_Create_DuplicateKeys(t *testing.T) {
	router := newTestRouter(&fakeAppStore{dup: true}, &types.User{ID: "u1"})

	req := httptest.NewRequest(http.MethodPost, "/apps", strings.NewReader(`{"name":"Shop","description":"d"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestHandlers_List_RedactsSecrets(t *testing.T) {
	store := &fakeAppStore{}
	user := &types.User{ID: "u1"}
	router := newTestRouter(store, user)

	create := httptest.NewRequest(http.MethodPost, "/apps", strings.NewReader(`{"name":"Shop","description":"d"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, create)
	if rr.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	var resp struct {
		Apps []types.App `json:"apps"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Apps) != 1 {
		t.Fatalf("expected 1 app, got %d", len(resp.Apps))
	}
	app := resp.Apps[0]
	if app.TestSecret != "" || app.LiveSecret != "" {
		t.Errorf("list response leaks secrets: %+v", app)
	}
	if app.TestPublic == "" || app.LivePublic == "" {
		t.Error("public keys must survive redaction")
	}
}

func TestHandlers_List_OnlyOwnApps(t *testing.T) {
	store := &fakeAppStore{}
	if _, err := store.Create(context.Background(), "other", types.CreateAppInput{Name: "n", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(store, &types.User{ID: "u1"})

	req := httptest.NewRequest(http.MethodGet, "/apps", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Apps []types.App `json:"apps"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Apps) != 0 {
		t.Errorf("expected no apps for u1, got %+v", resp.Apps)
	}
}
