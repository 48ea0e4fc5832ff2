// The api server is the single entrypoint for the platform API: it gates
// every request on an app key, serves registration/login, app key issuance,
// and country reference data.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twocards/platform/pkg/apps"
	"github.com/twocards/platform/pkg/auth"
	"github.com/twocards/platform/pkg/config"
	"github.com/twocards/platform/pkg/countries"
	"github.com/twocards/platform/pkg/email"
	tcOtel "github.com/twocards/platform/pkg/otel"
	"github.com/twocards/platform/pkg/users"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	// ── OpenTelemetry ────────────────────────────────────────────────────
	otelShutdown, err := tcOtel.Setup(ctx, tcOtel.Config{
		ServiceName:  config.EnvOr("OTEL_SERVICE_NAME", "twocards-api"),
		Environment:  config.EnvOr("DEPLOY_ENV", "development"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		log.Error("otel setup failed", "error", err)
	} else {
		defer otelShutdown(context.Background()) //nolint:errcheck // best-effort shutdown
	}

	// ── Postgres ─────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// ── Dependencies ─────────────────────────────────────────────────────
	appStore := apps.NewStore(pool)
	userStore := users.NewStore(pool)

	var mailer users.Mailer
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		mailer, err = email.NewService(email.Config{
			Domain:         cfg.MailgunDomain,
			APIKey:         cfg.MailgunAPIKey,
			AppBaseURL:     cfg.AppBaseURL,
			SendsPerSecond: config.EnvOrInt("MAIL_SENDS_PER_SECOND", 10),
		}, log)
		if err != nil {
			log.Error("mailer setup failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("no mailgun credentials configured, outbound email disabled")
		mailer = &email.LogMailer{Log: log}
	}

	userSvc := users.NewService(userStore, mailer, log)
	selector := auth.Selector{AdminKey: cfg.AdminKey}
	tokens := auth.NewTokenService(selector, auth.DefaultTokenTTL)
	gate := auth.NewGate(cfg.AdminKey, appStore, cfg.RateLimitPerKey, log)

	r := newRouter(routerDeps{
		log:        log,
		gate:       gate,
		tokens:     tokens,
		userLoader: userStore,
		usersH:     users.NewHandlers(userSvc, tokens, log),
		appsH:      apps.NewHandlers(appStore, log),
		countriesH: countries.NewHandlers(),
		ready:      pool.Ping,
	})

	// ── Metrics (internal) ───────────────────────────────────────────────
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	go func() {
		log.Info("metrics server starting", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()

	// ── Server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down api server")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	if err := metricsSrv.Shutdown(shutCtx); err != nil {
		log.Error("metrics server shutdown error", "error", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Router
// ──────────────────────────────────────────────────────────────────────────────

type routerDeps struct {
	log        *slog.Logger
	gate       *auth.Gate
	tokens     *auth.TokenService
	userLoader auth.UserLoader
	usersH     *users.Handlers
	appsH      *apps.Handlers
	countriesH *countries.Handlers
	ready      func(ctx context.Context) error
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.ready != nil {
			if err := d.ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(d.gate.Middleware)

		d.countriesH.RegisterRoutes(api)
		d.usersH.RegisterRoutes(api)

		api.Group(func(pr chi.Router) {
			pr.Use(auth.RequireUser(d.tokens, d.userLoader))
			d.appsH.RegisterRoutes(pr)
			d.usersH.RegisterProtected(pr)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Seems like the endpoint you're looking for no longer exists",
		})
	})

	return r
}
