package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-hub/external/gnews"
	"github.com/riskibarqy/cricket-hub/external/sportmonks"
	"github.com/riskibarqy/cricket-hub/external/youtube"
	"github.com/riskibarqy/cricket-hub/internal/config"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/eventbus"
	cacherepo "github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/cricket-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const (
	redisRangeKeyPrefix = "cricket-hub:"
	rangePurgeInterval  = time.Hour
)

// App is the assembled API process. Close releases everything NewApp opened
// after the HTTP server has stopped.
type App struct {
	Server  *http.Server
	closers []func(context.Context) error
	logger  *logging.Logger
}

func NewApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	a := &App{logger: logger}

	sportData := sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:    cfg.SportMonksBaseURL,
		Token:      cfg.SportMonksToken,
		Timeout:    cfg.SportMonksTimeout,
		MaxRetries: cfg.SportMonksMaxRetries,
		MaxPages:   cfg.SportMonksMaxPages,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})
	news := gnews.NewClient(gnews.ClientConfig{
		BaseURL: cfg.GNewsBaseURL,
		APIKey:  cfg.GNewsAPIKey,
		Timeout: cfg.GNewsTimeout,
		Logger:  logger,
	})
	videos := youtube.NewClient(youtube.ClientConfig{
		BaseURL: cfg.YouTubeBaseURL,
		APIKey:  cfg.YouTubeAPIKey,
		Timeout: cfg.YouTubeTimeout,
		Logger:  logger,
	})

	store, err := a.newRangeStore(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	rangeCache := usecase.NewRangeCache(store, cfg.RangeCacheTTL, logger)

	hydratorCfg := usecase.RangeHydratorConfig{
		Workers:        cfg.HydrationWorkers,
		ResolveTimeout: cfg.HydrationTimeout,
		Logger:         logger,
	}
	if cfg.AMQPEnabled {
		publisher, err := eventbus.NewAMQPPublisher(eventbus.AMQPPublisherConfig{
			URL:      cfg.AMQPURL,
			Exchange: cfg.AMQPExchange,
			Logger:   logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 3,
				OpenTimeout:      30 * time.Second,
				HalfOpenMaxReq:   1,
			},
		})
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("build amqp publisher: %w", err)
		}
		hydratorCfg.Publisher = publisher
		a.onClose(func(context.Context) error { return publisher.Close() })
	}

	hydrator, err := usecase.NewRangeHydrator(sportData, sportData, rangeCache, hydratorCfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.onClose(func(context.Context) error {
		hydrator.Close()
		return nil
	})

	var responses *cache.Store
	if cfg.CacheEnabled {
		responses = cache.NewStore(cfg.CacheTTL)
	}

	seriesSvc := usecase.NewSeriesService(sportData, sportData, hydrator, rangeCache, usecase.SeriesServiceConfig{
		Lookback:         cfg.SeriesLookback,
		Lookahead:        cfg.SeriesLookahead,
		HydrationTimeout: cfg.HydrationTimeout,
		Responses:        responses,
		Logger:           logger,
	})
	scheduleSvc := usecase.NewScheduleService(sportData, sportData, usecase.ScheduleServiceConfig{
		Lookback:      cfg.ScheduleLookback,
		Lookahead:     cfg.ScheduleLookahead,
		TeamLookback:  cfg.TeamMatchesLookback,
		TeamLookahead: cfg.TeamMatchesLookahead,
		Responses:     responses,
	})
	mediaSvc := usecase.NewMediaService(news, videos, responses)
	teamSvc := usecase.NewTeamService(sportData, sportData, usecase.TeamServiceConfig{
		Responses: responses,
		Logger:    logger,
	})

	handler := httpapi.NewHandler(seriesSvc, scheduleSvc, mediaSvc, teamSvc, httpapi.HandlerConfig{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		StreamWriteTimeout: cfg.WriteTimeout,
		Logger:             logger,
	})
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	})

	a.Server = &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: cfg.ReadTimeout,
		// WriteTimeout stays unset: series streams set per message deadlines.
		IdleTimeout: 2 * cfg.ReadTimeout,
	}
	return a, nil
}

// newRangeStore builds the backend selected by RANGE_CACHE_BACKEND. Remote
// backends get an in-process front cache.
func (a *App) newRangeStore(ctx context.Context, cfg config.Config) (series.RangeStore, error) {
	switch cfg.RangeCacheBackend {
	case config.RangeBackendRedis:
		client, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.onClose(func(context.Context) error { return client.Close() })
		a.logger.Info("range cache backend ready", "backend", cfg.RangeCacheBackend, "addr", cfg.RedisAddr)
		return a.withFrontCache(redisrepo.NewRangeStore(client, redisRangeKeyPrefix), cfg), nil

	case config.RangeBackendPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := postgres.NewRangeStore(db)
		stopPurge := a.startRangePurge(store)
		a.onClose(func(context.Context) error {
			stopPurge()
			return closeDB(db)
		})
		a.logger.Info("range cache backend ready", "backend", cfg.RangeCacheBackend, "db", dbNameFromURL(cfg.DBURL))
		return a.withFrontCache(store, cfg), nil

	default:
		a.logger.Info("range cache backend ready", "backend", config.RangeBackendMemory)
		return memory.NewRangeStore(), nil
	}
}

func (a *App) withFrontCache(next series.RangeStore, cfg config.Config) series.RangeStore {
	if !cfg.CacheEnabled {
		return next
	}
	return cacherepo.NewRangeStore(next, cache.NewStore(min(cfg.CacheTTL, cfg.RangeCacheTTL)))
}

// startRangePurge deletes expired postgres rows in the background until the
// returned stop func is called.
func (a *App) startRangePurge(store *postgres.RangeStore) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(rangePurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := store.PurgeExpired(ctx)
				if err != nil {
					a.logger.Warn("range cache purge failed", "error", err)
					continue
				}
				if purged > 0 {
					a.logger.Info("range cache purged", "rows", purged)
				}
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close runs the registered closers in reverse order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func closeDB(db *sqlx.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
