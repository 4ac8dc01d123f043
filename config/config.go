// Package config loads skyframe settings from YAML files, .env files and
// SKYFRAME_* environment variables, and builds the configured components.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/skyframe/baseline"
	"github.com/signalsfoundry/skyframe/frames"
	"github.com/signalsfoundry/skyframe/geodesy"
	"github.com/signalsfoundry/skyframe/jones"
	"github.com/signalsfoundry/skyframe/logging"
	"github.com/signalsfoundry/skyframe/observability"
)

// Config is the top-level configuration document.
type Config struct {
	Ellipsoid EllipsoidConfig             `yaml:"ellipsoid"`
	Frames    FramesConfig                `yaml:"frames"`
	Baseline  BaselineConfig              `yaml:"baseline"`
	Jones     JonesConfig                 `yaml:"jones"`
	Logging   logging.Config              `yaml:"logging"`
	Tracing   observability.TracingConfig `yaml:"tracing"`
}

// EllipsoidConfig selects a built-in ellipsoid by name, or defines one when
// SemiMajorAxis is set.
type EllipsoidConfig struct {
	Name          string  `yaml:"name"`
	SemiMajorAxis float64 `yaml:"semi_major_axis"`
	Flattening    float64 `yaml:"flattening"`
}

// FramesConfig selects the sidereal/precession provider and the optional
// corrections applied when computing hour angles.
type FramesConfig struct {
	Provider      string `yaml:"provider"` // iau1976 or meeus
	Nutation      bool   `yaml:"nutation"`
	PrecessToDate bool   `yaml:"precess_to_date"`
}

// BaselineConfig controls the UVW engine.
type BaselineConfig struct {
	Workers int  `yaml:"workers"` // 0 means GOMAXPROCS
	Autos   bool `yaml:"autos"`
}

// JonesConfig sets the singularity threshold for matrix inversion. Zero
// means jones.DefaultEpsilon.
type JonesConfig struct {
	Epsilon float64 `yaml:"epsilon"`
}

// Default returns the built-in configuration: WGS84, IAU 1976 without
// nutation, hour angles of date, text logging at info and tracing off.
func Default() Config {
	return Config{
		Ellipsoid: EllipsoidConfig{Name: "WGS84"},
		Frames:    FramesConfig{Provider: "iau1976", PrecessToDate: true},
		Logging:   logging.Config{Level: "info", Format: "text"},
		Tracing:   observability.DefaultTracingConfig(),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the given .env files (or ./.env when none are named, if it
// exists) and applies the environment over the defaults. Variables already
// set in the process environment win over file values. A ./.env that
// exists but does not parse is an error.
func FromEnv(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg, err := Default().ApplyEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields of c from SKYFRAME_*, LOG_LEVEL and LOG_FORMAT.
// Unlike the tracing variables, malformed values are errors.
func (c Config) ApplyEnv() (Config, error) {
	if v := os.Getenv("SKYFRAME_ELLIPSOID"); v != "" {
		c.Ellipsoid = EllipsoidConfig{Name: v}
	}
	if v := os.Getenv("SKYFRAME_FRAMES_PROVIDER"); v != "" {
		c.Frames.Provider = strings.ToLower(v)
	}
	var errs []error
	boolEnv("SKYFRAME_NUTATION", &c.Frames.Nutation, &errs)
	boolEnv("SKYFRAME_PRECESS_TO_DATE", &c.Frames.PrecessToDate, &errs)
	boolEnv("SKYFRAME_AUTOS", &c.Baseline.Autos, &errs)
	if v := os.Getenv("SKYFRAME_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SKYFRAME_WORKERS: %w", err))
		}
		c.Baseline.Workers = n
	}
	if v := os.Getenv("SKYFRAME_JONES_EPSILON"); v != "" {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SKYFRAME_JONES_EPSILON: %w", err))
		}
		c.Jones.Epsilon = eps
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	c.Tracing = observability.ApplyTracingEnv(c.Tracing)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return c, nil
}

func boolEnv(key string, dst *bool, errs *[]error) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.BuildEllipsoid(); err != nil {
		errs = append(errs, fmt.Errorf("ellipsoid: %w", err))
	}
	if _, ok := frames.ProviderByName(c.Frames.Provider); !ok {
		errs = append(errs, fmt.Errorf("frames: unknown provider %q", c.Frames.Provider))
	}
	if c.Baseline.Workers < 0 {
		errs = append(errs, fmt.Errorf("baseline: workers %d must not be negative", c.Baseline.Workers))
	}
	if c.Jones.Epsilon < 0 {
		errs = append(errs, fmt.Errorf("jones: epsilon %v must not be negative", c.Jones.Epsilon))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown format %q", c.Logging.Format))
	}
	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	return errors.Join(errs...)
}

// BuildEllipsoid returns the configured reference ellipsoid.
func (c Config) BuildEllipsoid() (geodesy.Ellipsoid, error) {
	e := c.Ellipsoid
	if e.SemiMajorAxis != 0 {
		name := e.Name
		if name == "" {
			name = "custom"
		}
		return geodesy.NewEllipsoid(name, e.SemiMajorAxis, e.Flattening)
	}
	return geodesy.ByName(e.Name)
}

// Transformer builds the configured frames.Transformer.
func (c Config) Transformer() (*frames.Transformer, error) {
	p, ok := frames.ProviderByName(c.Frames.Provider)
	if !ok {
		return nil, fmt.Errorf("frames: unknown provider %q", c.Frames.Provider)
	}
	return frames.NewTransformer(
		frames.WithProvider(p),
		frames.WithNutation(c.Frames.Nutation),
		frames.WithPrecessToDate(c.Frames.PrecessToDate),
	), nil
}

// Engine builds a UVW engine over the configured transformer. log and
// metrics may be nil.
func (c Config) Engine(log logging.Logger, metrics baseline.MetricsRecorder) (*baseline.Engine, error) {
	tr, err := c.Transformer()
	if err != nil {
		return nil, err
	}
	opts := []baseline.Option{
		baseline.WithWorkers(c.Baseline.Workers),
		baseline.WithAutos(c.Baseline.Autos),
		baseline.WithLogger(log),
	}
	if metrics != nil {
		opts = append(opts, baseline.WithMetrics(metrics))
	}
	return baseline.NewEngine(tr, opts...), nil
}

// Logger builds the configured logger.
func (c Config) Logger() logging.Logger { return logging.New(c.Logging) }

// Invert inverts j using the configured threshold.
func (c JonesConfig) Invert(j jones.Jones) (jones.Jones, error) {
	if c.Epsilon > 0 {
		return j.InverseWithEpsilon(c.Epsilon)
	}
	return j.Inverse()
}
