package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/QRLink/config"
	"github.com/BearBump/QRLink/internal/broker/kafka"
	"github.com/BearBump/QRLink/internal/cache"
	"github.com/BearBump/QRLink/internal/cache/rediscache"
	"github.com/BearBump/QRLink/internal/integrations/qrcode/skip2"
	"github.com/BearBump/QRLink/internal/services/customers"
	"github.com/BearBump/QRLink/internal/storage/pgcustomer"
	"github.com/BearBump/QRLink/internal/storage/sqlitecustomer"
)

const (
	defaultHTTPAddr           = ":8000"
	defaultSQLitePath         = "./customers.db"
	defaultEventsTopic        = "qrlink.customer_events"
	defaultRedirectCacheTTL   = 10 * time.Minute
	defaultRedirectRatePerMin = 600

	redirectRateLimitPrefix = "rl:redirect:"
)

type customerStore interface {
	customers.Repository
	Close()
}

type qrlinkApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    qrlinkAPIOpts
	svc     *customers.Service
	limiter cache.RateLimiter
	closers []func()
}

// applyDefaults fills the zero values of cfg in place.
func applyDefaults(cfg *config.Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = config.DriverSQLite
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultSQLitePath
	}
	if cfg.QRLink.HTTPAddr == "" {
		cfg.QRLink.HTTPAddr = defaultHTTPAddr
	}
	if cfg.QRLink.BaseURL == "" {
		cfg.QRLink.BaseURL = "http://localhost" + cfg.QRLink.HTTPAddr
	}
	if cfg.QRLink.RedirectCacheTTLSeconds <= 0 {
		cfg.QRLink.RedirectCacheTTLSeconds = int(defaultRedirectCacheTTL / time.Second)
	}
	if cfg.QRLink.RedirectRateLimitPerMinute <= 0 {
		cfg.QRLink.RedirectRateLimitPerMinute = defaultRedirectRatePerMin
	}
	if cfg.Kafka.CustomerEventsTopicName == "" {
		cfg.Kafka.CustomerEventsTopicName = defaultEventsTopic
	}
}

func mustBootstrapQRLinkAPI() *qrlinkApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	applyDefaults(cfg)

	app := &qrlinkApp{}

	st := mustOpenStore(cfg.Database)
	app.closers = append(app.closers, st.Close)

	var (
		bc     cache.BytesCache
		events customers.EventPublisher
	)
	if cfg.RedisEnabled() {
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		rc := rediscache.New(redisAddr)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			// Кэш и лимитер работают по принципу best-effort, стартуем без них.
			slog.Warn("redis is not reachable yet", "addr", redisAddr, "err", err)
		}
		cancel()
		rl := rediscache.NewRateLimiter(redisAddr, redirectRateLimitPrefix)
		bc, app.limiter = rc, rl
		app.closers = append(app.closers, func() { _ = rc.Close() }, func() { _ = rl.Close() })
	}
	if cfg.KafkaEnabled() {
		brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
		p := kafka.NewProducer(brokers)
		events = p
		app.closers = append(app.closers, func() { _ = p.Close() })
	}

	app.svc = customers.New(st, skip2.New(cfg.QRLink.QRSize), bc, events, customers.Config{
		BaseURL:     cfg.QRLink.BaseURL,
		CacheTTL:    time.Duration(cfg.QRLink.RedirectCacheTTLSeconds) * time.Second,
		EventsTopic: cfg.Kafka.CustomerEventsTopicName,

		InvalidationHold: time.Duration(cfg.QRLink.RedirectInvalidationHoldSeconds) * time.Second,
	})

	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app.opts = qrlinkAPIOpts{
		httpAddr:           cfg.QRLink.HTTPAddr,
		swaggerPath:        os.Getenv("swaggerPath"),
		rateLimitPerMinute: int64(cfg.QRLink.RedirectRateLimitPerMinute),
		trustProxyHeaders:  cfg.QRLink.TrustProxyHeaders,
	}

	slog.Info("qrlink configured",
		"driver", cfg.Database.Driver,
		"base_url", cfg.QRLink.BaseURL,
		"redis", cfg.RedisEnabled(),
		"kafka", cfg.KafkaEnabled(),
	)
	return app
}

func mustOpenStore(db config.DatabaseConfig) customerStore {
	switch db.Driver {
	case config.DriverSQLite:
		st, err := sqlitecustomer.New(db.Path)
		if err != nil {
			panic(err)
		}
		return st
	case config.DriverPostgres:
		return mustOpenPostgresWithRetry(db.PostgresConnString(), 60*time.Second)
	default:
		panic(fmt.Sprintf("unknown database driver %q", db.Driver))
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgcustomer.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgcustomer.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *qrlinkApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *qrlinkApp) Run() error {
	return runQRLinkAPI(a.ctx, a.opts, a.svc, a.limiter)
}
