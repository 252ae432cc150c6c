package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/serp-visibility/internal/adapter/filesource"
	redis_adapter "github.com/user/serp-visibility/internal/adapter/redis"
	"github.com/user/serp-visibility/internal/adapter/serpapi"
	"github.com/user/serp-visibility/internal/config"
	"github.com/user/serp-visibility/internal/delivery/http/handler"
	"github.com/user/serp-visibility/internal/monitoring"
	"github.com/user/serp-visibility/internal/repository"
	"github.com/user/serp-visibility/internal/usecase"
	"github.com/user/serp-visibility/pkg/logger"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *monitoring.Metrics
	scanner usecase.Scanner
	checks  map[string]handler.Pinger
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("error during shutdown", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// newApp loads configuration and builds the scanner. With PAYLOAD_DIR set, payloads
// come from disk and neither the provider nor the cache is used.
func newApp(reg prometheus.Registerer, indexedPaths bool) (*app, error) {
	cfg, err := config.Load(settings)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		logger:  log,
		metrics: monitoring.NewMetrics(reg),
		checks:  map[string]handler.Pinger{},
	}

	opts := usecase.Options{
		ExcludedFeatures: cfg.ExcludedFeatures,
		IndexedPaths:     indexedPaths,
	}
	var source repository.PayloadSource
	if cfg.PayloadDir != "" {
		source = filesource.New(cfg.PayloadDir)
		log.Info("reading saved payloads", zap.String("dir", cfg.PayloadDir))
	} else {
		client, err := serpapi.NewClient(serpapi.Options{
			APIKey:   cfg.SerpAPIKey,
			BaseURL:  cfg.SerpAPIBaseURL,
			Engine:   cfg.SerpAPIEngine,
			Location: cfg.SerpAPILocation,
			HL:       cfg.SerpAPIHL,
			GL:       cfg.SerpAPIGL,
			Timeout:  cfg.Timeout(),
		}, nil)
		if err != nil {
			return nil, err
		}
		source = client
		opts.PacingDelay = cfg.PacingDelay()

		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			cache := redis_adapter.NewPayloadCache(rdb, cfg.CacheNamespace())
			opts.Cache = cache
			opts.CacheTTL = cfg.CacheTTL()
			a.checks["redis"] = cache
			a.closers = append(a.closers, rdb.Close)
			log.Info("payload cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", opts.CacheTTL))
		}
	}

	a.scanner = usecase.NewScanUseCase(source, a.metrics, log, opts)
	return a, nil
}
