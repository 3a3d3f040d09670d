// Command server wires high-level dependencies, exposes the HTTP router, and
// keeps the server lifecycle small. Business logic lives in internal packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"consentd/internal/consent/handler"
	"consentd/internal/consent/models"
	"consentd/internal/consent/service"
	"consentd/internal/consent/store"
	"consentd/internal/dispatch"
	"consentd/internal/jwttoken"
	"consentd/internal/platform/config"
	"consentd/internal/platform/httpserver"
	"consentd/internal/platform/logger"
	"consentd/internal/platform/metrics"
	"consentd/internal/platform/middleware"
	platformredis "consentd/internal/platform/redis"
	"consentd/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	stor, closeStorage := newStorage(cfg, log)
	defer closeStorage()

	dispatcher, closeDispatcher, err := newDispatcher(cfg, log)
	if err != nil {
		log.Error("could not initialize collector dispatcher", "backend", cfg.Collector.Backend, "error", err)
		os.Exit(1)
	}
	defer closeDispatcher()

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, cfg.Issuer)

	manager := service.New(
		service.Config{
			StorageKey:   cfg.StorageKey,
			ConsentTable: cfg.ConsentTable,
			ContextTable: cfg.ContextTable,
			Issuer:       cfg.Issuer,
			DateLayout:   cfg.DateLayout,
		},
		store.New(cfg.DateLayout),
		stor,
		dispatcher,
		log,
		m,
		service.OnSyncFailure(func(f models.SyncFailure) {
			log.Warn("consent sync failed", "message", f.Message)
		}),
		service.OnExpiredConsents(func(expired map[string]models.Consent) {
			if len(expired) > 0 {
				log.Info("expired consents reconciled at startup", "count", len(expired))
			}
		}),
	)

	consentHandler := handler.New(manager, log, m, &jwtAdapter{svc: jwtService})

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())
	consentHandler.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consentd",
		"addr", cfg.Addr,
		"collector_backend", cfg.Collector.Backend,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("consentd stopped")
}

// newStorage prefers Redis and falls back to in-memory storage, which keeps
// the manager functional (without restart durability) when Redis is absent.
func newStorage(cfg config.Config, log *slog.Logger) (storage.Adapter, func()) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory preference storage", "error", err)
		return storage.NewMemory(), func() {}
	}
	if client == nil {
		log.Info("redis not configured, using in-memory preference storage")
		return storage.NewMemory(), func() {}
	}
	return storage.NewRedis(client.Client), func() {
		if err := client.Close(); err != nil {
			log.Warn("closing redis", "error", err)
		}
	}
}

func newDispatcher(cfg config.Config, log *slog.Logger) (dispatch.Dispatcher, func(), error) {
	noop := func() {}
	switch cfg.Collector.Backend {
	case "http":
		if cfg.Collector.Endpoint == "" {
			return nil, noop, errors.New("COLLECTOR_ENDPOINT is required for the http backend")
		}
		return dispatch.NewHTTP(cfg.Collector.Endpoint), noop, nil
	case "postgres":
		db, err := dispatch.OpenPostgres(cfg.Collector.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		return dispatch.NewPostgres(db), func() { _ = db.Close() }, nil
	case "kafka":
		k, err := dispatch.NewKafka(cfg.Collector.KafkaBrokers)
		if err != nil {
			return nil, noop, err
		}
		return k, k.Close, nil
	case "log":
		return dispatch.NewLog(log), noop, nil
	default:
		return nil, noop, errors.New("unknown collector backend: " + cfg.Collector.Backend)
	}
}

// jwtAdapter narrows the token service to the claims shape the middleware
// consumes.
type jwtAdapter struct {
	svc *jwttoken.Service
}

func (a *jwtAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
	}, nil
}
