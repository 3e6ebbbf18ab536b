package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/config"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/inbox"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	stripepay "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments/stripe"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/postgres"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/redis"
	postgresrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/postgres"
	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/availability"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	httpgin "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/transport/http/gin"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/migrations"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pool       *pgxpool.Pool
	rdb        *goredis.Client
	queue      *asynq.Client
	worker     *inbox.Worker
	notifier   *redisrepo.Notifier
	metrics    *metrics.Metrics
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	pgxPool, err := postgres.New(context.Background(), postgres.Config{
		DSN:             cfg.Postgres.DSN(),
		MaxConns:        cfg.Postgres.MaxConns,
		AppName:         "yachtd",
		ConnectAttempts: cfg.Postgres.ConnectAttempts,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		if _, err := postgres.Migrate(context.Background(), pgxPool, migrations.FS, logger); err != nil {
			pgxPool.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	redisCfg := redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	rdb, err := redis.New(context.Background(), redisCfg)
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.Namespace, reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.NewCache(rdb)
	notifier := redisrepo.NewNotifier(rdb)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Idempotency.TTL)

	var limiter reservation.Limiter
	if cfg.RateLimit.Requests > 0 {
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "reservations", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	var gateway payments.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = stripepay.NewGateway(stripepay.Config{
			SecretKey:  cfg.Stripe.SecretKey,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
		})
		if mode := gateway.Mode(); mode != cfg.Policy.PaymentMode {
			logger.Warn("stripe key does not match POLICY_PAYMENT_MODE, checkout refused until settings agree",
				slog.String("key_mode", mode), slog.String("payment_mode", cfg.Policy.PaymentMode))
		}
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout disabled")
	}

	// Initialize services
	services := service.NewServices(service.Repositories{
		Tx:             store,
		Slots:          store.Slots(),
		Reservations:   store.Reservations(),
		AgencyRequests: store.AgencyRequests(),
		Catalog:        store.Catalog(),
		Settings:       store.Settings(),
	}, service.Infra{
		Cache:    cache,
		Notifier: notifier,
		Limiter:  limiter,
		Gateway:  gateway,
		Metrics:  m,
	}, service.Config{
		Availability: availability.Config{ResultTTL: cfg.Cache.AvailabilityTTL},
		Defaults: domain.Settings{
			DepositPercent:       cfg.Policy.DepositPercent,
			HalfDayBasisPoints:   cfg.Policy.HalfDayBasisPoints,
			Currency:             cfg.Policy.Currency,
			PaymentMode:          cfg.Policy.PaymentMode,
			SingleDayFullRelaxed: cfg.Policy.SingleDayFullRelaxed,
		},
	}, logger)

	// Payment inbox
	queueCfg := inbox.Config{Concurrency: cfg.Queue.Concurrency, MaxRetry: cfg.Queue.MaxRetry}
	connOpt := redis.QueueConnOpt(redisCfg, cfg.Queue.RedisDB)
	queue := asynq.NewClient(connOpt)
	worker := inbox.NewWorker(connOpt, queueCfg, func(ctx context.Context, ev domain.PaymentEvent) error {
		_, err := services.Reconciler.Handle(ctx, ev)
		return err
	}, logger)

	deps := httpgin.Deps{
		Idempotency:    idempotencyStore,
		IdemLockTTL:    cfg.Idempotency.LockTTL,
		Events:         inbox.NewPublisher(queue, queueCfg),
		Metrics:        m,
		MetricsHandler: metricsHandler,
	}
	if cfg.Stripe.WebhookSecret != "" {
		deps.Webhooks = stripepay.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	} else {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set, webhook endpoint disabled")
	}

	// Initialize Gin router
	router := httpgin.NewRouter(services, deps, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		pool:     pgxPool,
		rdb:      rdb,
		queue:    queue,
		worker:   worker,
		notifier: notifier,
		metrics:  m,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Payment inbox worker
	g.Go(func() error {
		if err := a.worker.Start(); err != nil {
			return fmt.Errorf("failed to start inbox worker: %w", err)
		}
		a.logger.Info("inbox worker started")
		<-gCtx.Done()
		a.logger.Info("shutting down inbox worker")
		a.worker.Shutdown()
		return nil
	})

	// Notification audit trail
	g.Go(func() error {
		err := a.notifier.Subscribe(gCtx, func(_ context.Context, n domain.Notification) {
			a.logger.Info("notification", slog.String("type", string(n.Type)), slog.Int64("resource_id", n.ResourceID))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("notification subscriber: %w", err)
		}
		return nil
	})

	if a.metrics != nil {
		g.Go(func() error {
			a.metrics.CollectPoolStats(gCtx, a.pool, a.cfg.Metrics.PoolStatsInterval)
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) close() {
	if err := a.queue.Close(); err != nil {
		a.logger.Warn("closing queue client", slog.Any("err", err))
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("closing redis", slog.Any("err", err))
	}
	a.pool.Close()
}

// MigrateDirection selects what `yachtd migrate` does.
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// Migrate moves the embedded schema up to the latest version, or down by one, and exits.
func Migrate(ctx context.Context, cfg *config.Config, dir MigrateDirection, logger *slog.Logger) error {
	pool, err := postgres.New(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN(),
		MaxConns:        2,
		AppName:         "yachtd-migrate",
		ConnectAttempts: cfg.Postgres.ConnectAttempts,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer pool.Close()

	var res postgres.MigrationResult
	switch dir {
	case MigrateUp:
		res, err = postgres.Migrate(ctx, pool, migrations.FS, logger)
	case MigrateDown:
		res, err = postgres.Rollback(ctx, pool, migrations.FS, logger)
	default:
		return fmt.Errorf("unknown migrate direction %q", dir)
	}
	if err != nil {
		return err
	}
	logger.Info("schema migrated",
		slog.String("direction", string(dir)),
		slog.Int("from", int(res.From)),
		slog.Int("to", int(res.To)),
	)

	return nil
}
