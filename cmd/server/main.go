package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"suresavings/internal/attestation"
	attestationstore "suresavings/internal/attestation/store"
	"suresavings/internal/audit"
	auditmemory "suresavings/internal/audit/store/memory"
	auditpostgres "suresavings/internal/audit/store/postgres"
	"suresavings/internal/capture"
	"suresavings/internal/events"
	"suresavings/internal/idprovider"
	jwttoken "suresavings/internal/jwt_token"
	"suresavings/internal/kyc/decision"
	"suresavings/internal/kyc/engine"
	kychandler "suresavings/internal/kyc/handler"
	kycmetrics "suresavings/internal/kyc/metrics"
	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/ports"
	"suresavings/internal/kyc/session"
	"suresavings/internal/ocr"
	"suresavings/internal/platform/config"
	"suresavings/internal/platform/httpserver"
	"suresavings/internal/platform/kafka"
	"suresavings/internal/platform/logger"
	platformmetrics "suresavings/internal/platform/metrics"
	"suresavings/internal/platform/postgres"
	"suresavings/internal/platform/redis"
	"suresavings/internal/proximity"
	ratelimitmw "suresavings/internal/ratelimit/middleware"
	ratelimitmodels "suresavings/internal/ratelimit/models"
	"suresavings/internal/ratelimit/store/bucket"
	"suresavings/pkg/platform/circuit"
	"suresavings/pkg/platform/httputil"
	authmw "suresavings/pkg/platform/middleware/auth"
	"suresavings/pkg/platform/middleware/metadata"
	request "suresavings/pkg/platform/middleware/request"
	"suresavings/pkg/platform/middleware/requesttime"
)

// infra holds the optional backends. Nil fields mean the in-memory fallback
// is in use.
type infra struct {
	redis *redis.Client
	db    *sql.DB
	kafka *kgo.Client
}

func (i *infra) close(log *slog.Logger) {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			log.Warn("closing postgres failed", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("closing redis failed", "error", err)
		}
	}
}

// main wires the verification workflow, exposes the HTTP router and keeps the
// server lifecycle small. Business logic lives in internal/kyc.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	backends, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.close(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kycMetrics := kycmetrics.New(reg)
	httpMetrics := platformmetrics.New(reg)
	if backends.redis != nil {
		if err := backends.redis.RegisterPoolMetrics(reg); err != nil {
			return err
		}
	}

	publisher := buildPublisher(cfg, backends, log)
	coordinator := attestation.NewCoordinator(
		buildAttestationStore(cfg, backends),
		publisher,
		attestation.WithTTL(cfg.Workflow.AttestationTTL),
		attestation.WithLogger(log),
	)

	recorder, err := buildRecorder(ctx, backends, log)
	if err != nil {
		return err
	}

	provider := idprovider.New(
		cfg.Providers.IdentityProviderID,
		cfg.Providers.IdentityURL,
		cfg.Providers.IdentityAPIKey,
		cfg.Providers.IdentityTimeout,
		idprovider.WithBreaker(circuit.New(cfg.Providers.IdentityProviderID)),
		idprovider.WithLogger(log),
	)
	resolver := decision.NewResolver(
		provider,
		proximity.NewVerifier(buildGeocoder(cfg, backends, log), cfg.Workflow.ProximityRadiusM),
		coordinator,
		decision.WithMetrics(kycMetrics),
		decision.WithLogger(log),
	)

	mailbox := capture.NewPositionMailbox()
	eng, err := engine.New(
		ocr.New(cfg.Providers.OCRURL, cfg.Providers.OCRAPIKey, cfg.Providers.OCRTimeout),
		mailbox,
		coordinator,
		resolver,
		engine.WithLogger(log),
		engine.WithMetrics(kycMetrics),
		engine.WithOCRThreshold(cfg.Workflow.OCRLowConfidence),
		engine.WithPositionOptions(models.PositionOptions{
			HighAccuracy: cfg.Workflow.GeoHighAccuracy,
			Timeout:      cfg.Workflow.GeoTimeout,
			MaxCacheAge:  cfg.Workflow.GeoMaxCacheAge,
		}),
	)
	if err != nil {
		return err
	}

	manager := session.NewManager(eng, recorder, publisher,
		session.WithAttestationTTL(cfg.Workflow.AttestationTTL),
		session.WithLogger(log),
		session.WithDiscardHook(mailbox.Forget),
	)
	coordinator.SetListener(manager.HandleAttestation)

	handler := kychandler.New(manager, capture.NewImageCapturer(cfg.Workflow.MaxImageBytes), mailbox, coordinator, log)
	limiter := ratelimitmw.New(buildBucketStore(ctx, cfg, backends), log, ratelimitmw.WithDisabled(cfg.RateLimit.Disabled))
	router := newRouter(cfg, log, handler, limiter, httpMetrics, reg, backends)

	srv := httpserver.New(cfg.Server.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting kyc workflow server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	manager.Shutdown(shutdownCtx)
	return nil
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	backends := &infra{}
	var err error
	if backends.redis, err = redis.New(startCtx, cfg.Redis); err != nil {
		return nil, err
	}
	if backends.db, err = postgres.Open(startCtx, cfg.Postgres); err != nil {
		backends.close(log)
		return nil, err
	}
	if backends.kafka, err = kafka.New(startCtx, cfg.Kafka, log); err != nil {
		backends.close(log)
		return nil, err
	}
	log.Info("backends connected",
		"redis", backends.redis != nil,
		"postgres", backends.db != nil,
		"kafka", backends.kafka != nil,
	)
	return backends, nil
}

type eventSink interface {
	attestation.Dispatcher
	ports.TierEventPublisher
}

// buildPublisher returns the Kafka publisher when brokers are configured.
// The publisher also delivers attestation requests to the notifier.
func buildPublisher(cfg config.Config, backends *infra, log *slog.Logger) eventSink {
	if backends.kafka == nil {
		return events.NewMemoryPublisher(log)
	}
	return events.NewKafkaPublisher(backends.kafka,
		events.WithTopics(cfg.Kafka.DecisionTopic, cfg.Kafka.AttestationTopic),
		events.WithRespondBaseURL(cfg.Server.PublicBaseURL),
		events.WithKafkaLogger(log),
	)
}

func buildAttestationStore(cfg config.Config, backends *infra) attestation.Store {
	if backends.redis == nil {
		return attestationstore.NewInMemory()
	}
	return attestationstore.NewRedis(backends.redis.Client, cfg.Workflow.AttestationRetention)
}

func buildRecorder(ctx context.Context, backends *infra, log *slog.Logger) (*audit.Recorder, error) {
	if backends.db == nil {
		return audit.NewRecorder(auditmemory.New(), log), nil
	}
	if err := auditpostgres.Migrate(ctx, backends.db); err != nil {
		return nil, err
	}
	return audit.NewRecorder(auditpostgres.New(backends.db), log), nil
}

func buildGeocoder(cfg config.Config, backends *infra, log *slog.Logger) proximity.Geocoder {
	var geocoder proximity.Geocoder = proximity.NewHTTPGeocoder(
		cfg.Providers.GeocoderURL,
		cfg.Providers.GeocoderAPIKey,
		cfg.Providers.GeocoderTimeout,
	)
	if backends.redis != nil {
		geocoder = proximity.NewCachedGeocoder(geocoder, backends.redis.Client, cfg.Providers.GeocodeCacheTTL, log)
	}
	return geocoder
}

// buildBucketStore shares rate limit windows through Redis when available.
// The in-memory store is swept in the background until ctx ends.
func buildBucketStore(ctx context.Context, cfg config.Config, backends *infra) ratelimitmw.BucketStore {
	if backends.redis != nil {
		return bucket.NewRedisBucketStore(backends.redis.Client)
	}
	store := bucket.NewInMemoryBucketStore()
	interval := max(cfg.RateLimit.AttestationWindow, cfg.RateLimit.SessionWindow, time.Minute)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Sweep()
			}
		}
	}()
	return store
}

func newRouter(
	cfg config.Config,
	log *slog.Logger,
	handler *kychandler.Handler,
	limiter *ratelimitmw.Middleware,
	httpMetrics *platformmetrics.Metrics,
	reg *prometheus.Registry,
	backends *infra,
) http.Handler {
	jwtValidator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience),
	)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(httpMetrics.Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if backends.redis != nil {
			if err := backends.redis.Health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(limiter.ByClientIP(ratelimitmodels.Policy{
			Name:   "attestation",
			Limit:  cfg.RateLimit.AttestationLimit,
			Window: cfg.RateLimit.AttestationWindow,
		}))
		handler.RegisterPublic(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwtValidator, log))
		r.Use(limiter.ByUser(ratelimitmodels.Policy{
			Name:   "session",
			Limit:  cfg.RateLimit.SessionLimit,
			Window: cfg.RateLimit.SessionWindow,
		}))
		handler.Register(r)
	})
	return r
}
