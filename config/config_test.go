package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalsfoundry/skyframe/jones"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	e, err := cfg.BuildEllipsoid()
	if err != nil || e.A != 6378137 {
		t.Fatalf("default ellipsoid = %+v, %v", e, err)
	}
	tr, err := cfg.Transformer()
	if err != nil {
		t.Fatalf("Transformer: %v", err)
	}
	if tr.Provider().Name() != "iau1976" || tr.Nutation() || !tr.PrecessToDate() {
		t.Fatalf("default transformer = %s", tr)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "skyframe.yaml", `
ellipsoid:
  name: GRS80
frames:
  provider: meeus
  nutation: true
  precess_to_date: true
baseline:
  workers: 3
  autos: true
jones:
  epsilon: 1e-9
logging:
  level: debug
  format: json
tracing:
  enabled: false
  exporter: otlp
  endpoint: collector:4317
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ellipsoid.Name != "GRS80" || cfg.Frames.Provider != "meeus" || !cfg.Frames.Nutation || !cfg.Frames.PrecessToDate {
		t.Fatalf("unexpected frames/ellipsoid: %+v %+v", cfg.Ellipsoid, cfg.Frames)
	}
	if cfg.Baseline.Workers != 3 || !cfg.Baseline.Autos || cfg.Jones.Epsilon != 1e-9 {
		t.Fatalf("unexpected baseline/jones: %+v %+v", cfg.Baseline, cfg.Jones)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Tracing.Exporter != "otlp" || cfg.Tracing.Endpoint != "collector:4317" {
		t.Fatalf("unexpected tracing: %+v", cfg.Tracing)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Tracing.ServiceName != "skyframe" || cfg.Tracing.SampleRatio != 1 {
		t.Fatalf("defaults lost: %+v", cfg.Tracing)
	}

	eng, err := cfg.Engine(nil, nil)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if eng.Workers() != 3 || eng.Transformer().Provider().Name() != "meeus" {
		t.Fatalf("engine workers=%d provider=%s", eng.Workers(), eng.Transformer().Provider().Name())
	}
}

func TestLoadCustomEllipsoid(t *testing.T) {
	path := writeFile(t, "sphere.yaml", "ellipsoid:\n  semi_major_axis: 6371000\n  flattening: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, err := cfg.BuildEllipsoid()
	if err != nil {
		t.Fatalf("BuildEllipsoid: %v", err)
	}
	if e.A != 6371000 || e.F != 0 || e.B() != 6371000 {
		t.Fatalf("custom ellipsoid = %+v", e)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
	tests := []struct {
		name, body, want string
	}{
		{"syntax", "frames: [", "parse config"},
		{"provider", "frames:\n  provider: vsop87\n", "unknown provider"},
		{"ellipsoid", "ellipsoid:\n  name: clarke1866\n", "ellipsoid"},
		{"flattening", "ellipsoid:\n  semi_major_axis: 6e6\n  flattening: 1.5\n", "flattening"},
		{"workers", "baseline:\n  workers: -2\n", "workers"},
		{"epsilon", "jones:\n  epsilon: -1\n", "epsilon"},
		{"log format", "logging:\n  format: xml\n", "logging"},
		{"exporter", "tracing:\n  exporter: zipkin\n", "tracing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "SKYFRAME_TEST_FILE_ONLY=1\nSKYFRAME_FRAMES_PROVIDER=meeus\n")
	t.Cleanup(func() {
		os.Unsetenv("SKYFRAME_TEST_FILE_ONLY")
		os.Unsetenv("SKYFRAME_FRAMES_PROVIDER")
	})
	t.Setenv("SKYFRAME_NUTATION", "true")
	t.Setenv("SKYFRAME_WORKERS", "5")
	t.Setenv("SKYFRAME_ELLIPSOID", "GRS80")
	t.Setenv("SKYFRAME_JONES_EPSILON", "1e-6")
	t.Setenv("SKYFRAME_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := FromEnv(envFile)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if os.Getenv("SKYFRAME_TEST_FILE_ONLY") != "1" {
		t.Fatal("env file was not loaded")
	}
	if cfg.Frames.Provider != "meeus" || !cfg.Frames.Nutation || cfg.Baseline.Workers != 5 {
		t.Fatalf("unexpected config: %+v %+v", cfg.Frames, cfg.Baseline)
	}
	if cfg.Ellipsoid.Name != "GRS80" || cfg.Jones.Epsilon != 1e-6 {
		t.Fatalf("unexpected ellipsoid/jones: %+v %+v", cfg.Ellipsoid, cfg.Jones)
	}
	if cfg.Tracing.SampleRatio != 0.25 || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected tracing/logging: %+v %+v", cfg.Tracing, cfg.Logging)
	}
}

func TestFromEnvMissingFile(t *testing.T) {
	if _, err := FromEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatal("missing env file accepted")
	}
}

func TestFromEnvDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { os.Unsetenv("SKYFRAME_TEST_DOTENV") })

	if _, err := FromEnv(); err != nil {
		t.Fatalf("FromEnv without ./.env: %v", err)
	}

	if err := os.WriteFile(".env", []byte("SKYFRAME_TEST_DOTENV=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FromEnv(); err != nil {
		t.Fatalf("FromEnv with ./.env: %v", err)
	}
	if os.Getenv("SKYFRAME_TEST_DOTENV") != "1" {
		t.Fatal("./.env was not loaded")
	}
}

func TestFromEnvMalformedDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(".env", []byte("SKYFRAME-WORKERS=2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "load .env") {
		t.Fatalf("FromEnv with malformed ./.env = %v, want load error", err)
	}
}

func TestApplyEnvMalformed(t *testing.T) {
	t.Setenv("SKYFRAME_AUTOS", "maybe")
	t.Setenv("SKYFRAME_WORKERS", "many")
	_, err := Default().ApplyEnv()
	if err == nil {
		t.Fatal("malformed values accepted")
	}
	for _, key := range []string{"SKYFRAME_AUTOS", "SKYFRAME_WORKERS"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err, key)
		}
	}
}

func TestJonesInvert(t *testing.T) {
	d := jones.Diagonal(1e-4, 1e-4)

	if _, err := (JonesConfig{}).Invert(d); err != nil {
		t.Fatalf("default epsilon rejected a regular matrix: %v", err)
	}
	_, err := (JonesConfig{Epsilon: 1e-6}).Invert(d)
	if !errors.Is(err, jones.ErrSingularMatrix) {
		t.Fatalf("Invert with epsilon 1e-6 = %v, want ErrSingularMatrix", err)
	}
}
