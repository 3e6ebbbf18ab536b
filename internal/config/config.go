package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Stripe      StripeConfig
	Queue       QueueConfig
	Policy      PolicyConfig
	Cache       CacheConfig
	Idempotency IdempotencyConfig
	RateLimit   RateLimitConfig
	Metrics     MetricsConfig
	Log         LogConfig
}

// LogConfig selects the slog handler built in main.
type LogConfig struct {
	Level slog.Level
	JSON  bool
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
	// ConnectAttempts retries the first ping while the database boots.
	ConnectAttempts int
	// AutoMigrate applies the embedded schema at startup.
	AutoMigrate bool
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

// StripeConfig is optional: without a secret key checkout is disabled, without a
// webhook secret the webhook endpoint is not mounted.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type QueueConfig struct {
	RedisDB     int
	Concurrency int
	MaxRetry    int
}

// PolicyConfig seeds the settings used when the settings row is absent.
type PolicyConfig struct {
	DepositPercent       int
	HalfDayBasisPoints   int
	Currency             string
	PaymentMode          string
	SingleDayFullRelaxed bool
}

type CacheConfig struct {
	AvailabilityTTL time.Duration
}

type IdempotencyConfig struct {
	TTL     time.Duration
	LockTTL time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type MetricsConfig struct {
	Enabled           bool
	Namespace         string
	PoolStatsInterval time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: stringEnv("SERVER_HOST", "localhost"),
		Port: serverPort,
	}

	postgresPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	maxConns, err := intEnv("POSTGRES_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	connectAttempts, err := intEnv("POSTGRES_CONNECT_ATTEMPTS", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	autoMigrate, err := boolEnv("POSTGRES_AUTO_MIGRATE", false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresCfg := PostgresConfig{
		User:            postgresUser,
		Password:        postgresPassword,
		Name:            postgresDB,
		Host:            stringEnv("POSTGRES_HOST", "localhost"),
		Port:            postgresPort,
		SSLMode:         stringEnv("POSTGRES_SSLMODE", "disable"),
		MaxConns:        int32(maxConns),
		ConnectAttempts: connectAttempts,
		AutoMigrate:     autoMigrate,
	}

	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisPool, err := intEnv("REDIS_POOL_SIZE", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     stringEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
		PoolSize: redisPool,
	}

	stripeCfg := StripeConfig{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:    stringEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CancelURL:     stringEnv("STRIPE_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
	}

	queueDB, err := intEnv("QUEUE_REDIS_DB", redisDB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	queueConcurrency, err := intEnv("QUEUE_CONCURRENCY", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	queueMaxRetry, err := intEnv("QUEUE_MAX_RETRY", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	queueCfg := QueueConfig{
		RedisDB:     queueDB,
		Concurrency: queueConcurrency,
		MaxRetry:    queueMaxRetry,
	}

	depositPercent, err := intEnv("POLICY_DEPOSIT_PERCENT", 20)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if depositPercent < 0 || depositPercent > 100 {
		return nil, fmt.Errorf("%s: POLICY_DEPOSIT_PERCENT out of range: %d", op, depositPercent)
	}
	halfDay, err := intEnv("POLICY_HALF_DAY_BASIS_POINTS", 5500)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	relaxed, err := boolEnv("POLICY_SINGLE_DAY_FULL_RELAXED", true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	paymentMode := strings.ToLower(stringEnv("POLICY_PAYMENT_MODE", "test"))
	if paymentMode != "test" && paymentMode != "live" {
		return nil, fmt.Errorf("%s: POLICY_PAYMENT_MODE must be test or live, got %q", op, paymentMode)
	}

	policyCfg := PolicyConfig{
		DepositPercent:       depositPercent,
		HalfDayBasisPoints:   halfDay,
		Currency:             strings.ToLower(stringEnv("POLICY_CURRENCY", "eur")),
		PaymentMode:          paymentMode,
		SingleDayFullRelaxed: relaxed,
	}

	availabilityTTL, err := durationEnv("CACHE_AVAILABILITY_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idemTTL, err := durationEnv("IDEMPOTENCY_TTL", 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idemLockTTL, err := durationEnv("IDEMPOTENCY_LOCK_TTL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rlRequests, err := intEnv("RATE_LIMIT_REQUESTS", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rlWindow, err := durationEnv("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metricsEnabled, err := boolEnv("METRICS_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	poolInterval, err := durationEnv("METRICS_POOL_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(stringEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("%s: invalid LOG_LEVEL: %w", op, err)
	}
	logFormat := strings.ToLower(stringEnv("LOG_FORMAT", "text"))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("%s: invalid LOG_FORMAT %q", op, logFormat)
	}

	return &Config{
		Server:      serverCfg,
		Postgres:    postgresCfg,
		Redis:       redisCfg,
		Stripe:      stripeCfg,
		Queue:       queueCfg,
		Policy:      policyCfg,
		Cache:       CacheConfig{AvailabilityTTL: availabilityTTL},
		Idempotency: IdempotencyConfig{TTL: idemTTL, LockTTL: idemLockTTL},
		RateLimit:   RateLimitConfig{Requests: rlRequests, Window: rlWindow},
		Metrics: MetricsConfig{
			Enabled:           metricsEnabled,
			Namespace:         stringEnv("METRICS_NAMESPACE", "bbyacht"),
			PoolStatsInterval: poolInterval,
		},
		Log: LogConfig{Level: logLevel, JSON: logFormat == "json"},
	}, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
