package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestIsHealthRequestLog(t *testing.T) {
	t.Parallel()

	if !isHealthRequestLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isHealthRequestLog("http request", []any{"path", "/v1/series"}) {
		t.Fatalf("did not expect series request log to be skipped")
	}
	if isHealthRequestLog("stage lookup failed", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non request log to be skipped")
	}
}

func TestMirrorAttributes(t *testing.T) {
	t.Parallel()

	attrs := mirrorAttributes([]any{
		"stage_id", int64(10),
		"stage_ids", []int64{10, 11},
		"error", errors.New("upstream down"),
		"dangling",
	})
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "stage_id" || attrs[0].Value.AsInt64() != 10 {
		t.Fatalf("unexpected stage_id attribute: %+v", attrs[0])
	}
	if attrs[1].Value.Kind() != otellog.KindSlice || len(attrs[1].Value.AsSlice()) != 2 {
		t.Fatalf("unexpected stage_ids attribute: %+v", attrs[1])
	}
	if attrs[2].Value.AsString() != "upstream down" {
		t.Fatalf("unexpected error attribute: %+v", attrs[2])
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[3])
	}
}

func TestMirrorAttributes_NonStringKey(t *testing.T) {
	t.Parallel()

	attrs := mirrorAttributes([]any{42, time.Second})
	if len(attrs) != 1 || attrs[0].Key != "arg_0" || attrs[0].Value.AsString() != "1s" {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
}

func TestMirrorSeverity(t *testing.T) {
	t.Parallel()

	cases := map[zapcore.Level]otellog.Severity{
		zapcore.DebugLevel: otellog.SeverityDebug,
		zapcore.InfoLevel:  otellog.SeverityInfo,
		zapcore.WarnLevel:  otellog.SeverityWarn,
		zapcore.ErrorLevel: otellog.SeverityError,
		zapcore.FatalLevel: otellog.SeverityFatal,
	}
	for level, want := range cases {
		if got := mirrorSeverity(level); got != want {
			t.Fatalf("level %s: want %v, got %v", level, want, got)
		}
	}
}
