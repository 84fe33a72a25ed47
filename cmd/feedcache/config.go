package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/feedcache/pkg/cache"
	"github.com/dmitrymomot/feedcache/pkg/cachemetrics"
	"github.com/dmitrymomot/feedcache/pkg/health"
	"github.com/dmitrymomot/feedcache/pkg/kvstore"
	"github.com/dmitrymomot/feedcache/pkg/logger"
	"github.com/dmitrymomot/feedcache/pkg/redis"
)

// config is read from the environment once per command.
type config struct {
	Sentry logger.SentryConfig
	Log    logger.Config
	Redis  redis.Config
	Store  kvstore.RedisConfig
	Cache  cache.Config
}

// probeKey is written by the round-trip check; it matches no cache namespace.
const probeKey = "health:probe"

// runtime is everything a command needs once connected.
type runtime struct {
	log      *slog.Logger
	store    kvstore.Store
	cache    *cache.Cache
	registry *prometheus.Registry
	checks   health.Checks
}

func (rt *runtime) Close() error {
	return rt.cache.Close()
}

// connector opens the runtime. Tests swap it for an in-memory one.
type connector func(ctx context.Context, o rootOptions) (*runtime, error)

func loadConfig(o rootOptions) (config, error) {
	vars := env.ToMap(os.Environ())
	if o.redisURL != "" {
		vars["REDIS_URL"] = o.redisURL
	}

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return config{}, err
	}
	if o.prefix != "" {
		cfg.Store.Prefix = o.prefix
	}
	return cfg, nil
}

func connectRedis(ctx context.Context, o rootOptions) (*runtime, error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithSentry(cfg.Sentry, cfg.Log.Options()...)

	client, err := redis.OpenConfig(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	return newRuntime(log, kvstore.NewRedis(client, cfg.Store.Options()...), redis.Healthcheck(client), cfg.Cache)
}

func newRuntime(log *slog.Logger, store kvstore.Store, ping func(context.Context) error, cfg cache.Config) (*runtime, error) {
	reg := prometheus.NewRegistry()
	metrics, err := cachemetrics.New(reg, "feedcache")
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	opts := append(cfg.Options(), cache.WithObserver(cache.Observers(cache.NewLogObserver(log), metrics)))

	return &runtime{
		log:      log,
		store:    store,
		cache:    cache.New(store, opts...),
		registry: reg,
		checks: health.Checks{
			"store":     ping,
			"roundtrip": health.StoreRoundTrip(store, probeKey),
		},
	}, nil
}
