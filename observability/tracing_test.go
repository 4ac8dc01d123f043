package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTracingConfigFromEnv(t *testing.T) {
	t.Setenv("SKYFRAME_TRACING_ENABLED", "true")
	t.Setenv("SKYFRAME_TRACING_EXPORTER", "OTLP")
	t.Setenv("SKYFRAME_TRACING_SERVICE_NAME", "uvw-batch")
	t.Setenv("SKYFRAME_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("SKYFRAME_OTLP_ENDPOINT", "collector:4317")

	cfg := TracingConfigFromEnv()
	if !cfg.Enabled || cfg.Exporter != "otlp" || cfg.ServiceName != "uvw-batch" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.SampleRatio != 0.25 || cfg.Endpoint != "collector:4317" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestTracingConfigIgnoresBadRatio(t *testing.T) {
	t.Setenv("SKYFRAME_TRACING_SAMPLE_RATIO", "7")
	if got := TracingConfigFromEnv().SampleRatio; got != 1 {
		t.Fatalf("SampleRatio = %v, want default 1", got)
	}
}

func TestTracingConfigValidate(t *testing.T) {
	if err := DefaultTracingConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := (TracingConfig{Exporter: "zipkin"}).Validate(); err == nil {
		t.Fatal("expected exporter error")
	}
	if err := (TracingConfig{SampleRatio: -0.5}).Validate(); err == nil {
		t.Fatal("expected ratio error")
	}
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Fatal("disabled tracing produced a recording span")
	}
	span.End()
	ShutdownWithTimeout(context.Background(), shutdown, nil)
}

func TestStdoutTracerProviderExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Writer = &buf

	tp, err := NewTracerProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewTracerProvider: %v", err)
	}
	_, span := tp.Tracer(TracerName).Start(context.Background(), "uvw.series")
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "uvw.series") {
		t.Fatalf("span not exported:\n%s", buf.String())
	}
}
