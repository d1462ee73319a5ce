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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"dealchecker/internal/checker"
	checkerhandler "dealchecker/internal/checker/handler"
	"dealchecker/internal/compliance"
	compliancemetrics "dealchecker/internal/compliance/metrics"
	"dealchecker/internal/files"
	jwttoken "dealchecker/internal/jwt_token"
	"dealchecker/internal/platform/config"
	"dealchecker/internal/platform/httpserver"
	"dealchecker/internal/platform/kafka"
	"dealchecker/internal/platform/logger"
	"dealchecker/internal/platform/metrics"
	"dealchecker/internal/platform/postgres"
	redisclient "dealchecker/internal/platform/redis"
	"dealchecker/internal/registry"
	"dealchecker/internal/task"
	taskmetrics "dealchecker/internal/task/metrics"
	taskstore "dealchecker/internal/task/store"
	audit "dealchecker/pkg/platform/audit"
	auditpublisher "dealchecker/pkg/platform/audit/publisher"
	kafkastore "dealchecker/pkg/platform/audit/store/kafka"
	loggingstore "dealchecker/pkg/platform/audit/store/logging"
	auditpostgres "dealchecker/pkg/platform/audit/store/postgres"
	"dealchecker/pkg/platform/circuit"
	"dealchecker/pkg/platform/httputil"
	auth "dealchecker/pkg/platform/middleware/auth"
	"dealchecker/pkg/platform/middleware/request"
	"dealchecker/pkg/platform/middleware/requesttime"
)

// infra holds the optional backing services. Nil fields were not configured.
type infra struct {
	db    *sql.DB
	redis *redisclient.Client
	kafka *kgo.Client
}

func main() {
	cfg, err := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel, cfg.Server.Environment)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	publisher, err := buildAuditPublisher(ctx, cfg, deps, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	deals := registry.New(cfg.Registry.BaseURL,
		registry.WithTimeout(cfg.Registry.Timeout),
		registry.WithLogger(log),
		registry.WithBreaker(circuit.New("registry",
			circuit.WithFailureThreshold(cfg.Registry.FailureThreshold),
			circuit.WithCooldown(cfg.Registry.Cooldown),
		)),
	)

	tasks, err := buildTaskService(ctx, cfg, deps, deals, publisher, log)
	if err != nil {
		return err
	}

	documents, err := buildFileSource(ctx, cfg, log)
	if err != nil {
		return err
	}

	engine := compliance.NewEngine(log, compliancemetrics.New())
	service := checker.New(deals, documents, tasks, engine, log, checker.WithAuditPublisher(publisher))

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	handler := checkerhandler.New(service, log,
		auth.Capability{Permissions: cfg.Auth.ReadPermissions, Role: cfg.Auth.RequiredRole},
		auth.Capability{Permissions: cfg.Auth.WritePermissions, Role: cfg.Auth.RequiredRole},
	)

	httpMetrics := metrics.New()
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", healthHandler(deps))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwttoken.NewValidator(jwtService), log))
		handler.Register(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting dealchecker", "addr", cfg.Server.Addr, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	deps.db = db

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	deps.redis = rc

	if cfg.Kafka.Enabled {
		kc, err := kafka.NewClient(cfg.Kafka)
		if err != nil {
			deps.close(log)
			return nil, err
		}
		deps.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka, log); err != nil {
			deps.close(log)
			return nil, err
		}
	}

	log.Info("backing services",
		"postgres", deps.db != nil,
		"redis", deps.redis != nil,
		"kafka", deps.kafka != nil,
	)
	return deps, nil
}

func (d *infra) close(log *slog.Logger) {
	if d.kafka != nil {
		d.kafka.Close()
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn("close postgres", "error", err)
		}
	}
}

// buildAuditPublisher picks the primary sink: Kafka when enabled, then
// PostgreSQL, then the log. Broker or database failures fall back to the log.
func buildAuditPublisher(ctx context.Context, cfg config.Config, deps *infra, log *slog.Logger) (*auditpublisher.Publisher, error) {
	fallback := loggingstore.New(log)

	var primary audit.Store
	switch {
	case deps.kafka != nil:
		primary = kafkastore.New(deps.kafka, cfg.Kafka.AuditTopic)
	case deps.db != nil:
		store := auditpostgres.New(deps.db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		primary = store
	default:
		return auditpublisher.NewPublisher(fallback,
			auditpublisher.WithLogger(log),
			auditpublisher.WithMetrics(auditpublisher.NewMetrics()),
		), nil
	}

	return auditpublisher.NewPublisher(primary,
		auditpublisher.WithAsyncBuffer(cfg.Tasks.AuditBufferSize),
		auditpublisher.WithFallback(fallback, circuit.New("audit")),
		auditpublisher.WithLogger(log),
		auditpublisher.WithMetrics(auditpublisher.NewMetrics()),
	), nil
}

func buildTaskService(ctx context.Context, cfg config.Config, deps *infra, deals *registry.Client, publisher *auditpublisher.Publisher, log *slog.Logger) (*task.Service, error) {
	var store task.Store = taskstore.NewInMemoryStore()
	if deps.db != nil {
		pg := taskstore.NewPostgres(deps.db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		store = pg
	}

	var guard task.IdempotencyGuard = task.NewMemoryGuard()
	if deps.redis != nil {
		guard = task.NewRedisGuard(deps.redis.Client)
	}

	return task.New(store, deals, log,
		task.WithIdempotencyGuard(guard),
		task.WithAuditPublisher(publisher),
		task.WithMetrics(taskmetrics.New()),
		task.WithLockTTL(cfg.Tasks.IdempotencyTTL),
	), nil
}

func buildFileSource(ctx context.Context, cfg config.Config, log *slog.Logger) (checker.FileSource, error) {
	if cfg.Storage.Endpoint == "" {
		log.Warn("STORAGE_ENDPOINT not set, deals will have no documents")
		return files.NewMemoryStore(), nil
	}
	return files.Connect(ctx, files.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	}, log)
}

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// healthHandler reports 503 when any configured backing service fails its ping.
func healthHandler(deps *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]func(context.Context) error{}
		if deps.db != nil {
			checks["postgres"] = deps.db.PingContext
		}
		if deps.redis != nil {
			checks["redis"] = deps.redis.Health
		}
		if deps.kafka != nil {
			checks["kafka"] = func(ctx context.Context) error { return kafka.Health(ctx, deps.kafka) }
		}

		resp := healthResponse{Status: "ok", Services: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Services[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Services[name] = "up"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
