package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HydrationWorkers != 24 {
		t.Fatalf("expected 24 hydration workers, got %d", cfg.HydrationWorkers)
	}
	if cfg.RangeCacheTTL != 6*time.Hour {
		t.Fatalf("expected range cache ttl 6h, got %s", cfg.RangeCacheTTL)
	}
	if cfg.SeriesLookback != 30*24*time.Hour {
		t.Fatalf("expected series lookback 30d, got %s", cfg.SeriesLookback)
	}
	if cfg.SeriesLookahead != 400*24*time.Hour {
		t.Fatalf("expected series lookahead 400d, got %s", cfg.SeriesLookahead)
	}
	if cfg.RangeCacheBackend != RangeBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.RangeCacheBackend)
	}
	if cfg.SportMonksBaseURL != "https://cricket.sportmonks.com/api/v2.0" {
		t.Fatalf("unexpected sportmonks base url %q", cfg.SportMonksBaseURL)
	}
}

func TestLoad_RangeCacheBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RANGE_CACHE_BACKEND", "memcached")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown RANGE_CACHE_BACKEND")
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("RANGE_CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RangeCacheBackend != RangeBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.RangeCacheBackend)
	}
	if cfg.RedisAddr != "cache:6379" || cfg.RedisDB != 3 {
		t.Fatalf("unexpected redis settings addr=%q db=%d", cfg.RedisAddr, cfg.RedisDB)
	}
}

func TestLoad_HydrationWorkersMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("HYDRATION_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for HYDRATION_WORKERS=0")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RANGE_CACHE_TTL", "six hours")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid RANGE_CACHE_TTL")
	}
}

func TestLoad_ProdRequiresSportMonksToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SPORTMONKS_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SPORTMONKS_TOKEN is missing in prod")
	}

	t.Setenv("SPORTMONKS_TOKEN", "token-123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SportMonksToken != "token-123" {
		t.Fatalf("unexpected token %q", cfg.SportMonksToken)
	}
}

func TestLoad_AMQPBlankExchangeUsesDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("AMQP_ENABLED", "true")
	t.Setenv("AMQP_EXCHANGE", " ")
	t.Setenv("AMQP_URL", "amqp://localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AMQPExchange != "cricket.series" {
		t.Fatalf("expected default exchange, got %q", cfg.AMQPExchange)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split result %#v", got)
	}
}
