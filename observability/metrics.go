package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/skyframe/jones"
	"github.com/signalsfoundry/skyframe/model"
)

// Batch results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCanceled = "canceled"
)

// GeometryCollector bundles Prometheus metrics for UVW batches and
// geometry failures.
type GeometryCollector struct {
	gatherer prometheus.Gatherer

	Batches       *prometheus.CounterVec
	Baselines     prometheus.Counter
	Timesteps     prometheus.Counter
	BatchDuration prometheus.Histogram
	Errors        *prometheus.CounterVec
	Workers       prometheus.Gauge
}

// NewGeometryCollector registers geometry metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice against the same registry returns the existing
// collectors.
func NewGeometryCollector(reg prometheus.Registerer) (*GeometryCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	batches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyframe_uvw_batches_total",
		Help: "UVW batches computed, labeled by result.",
	}, []string{"result"}), "skyframe_uvw_batches_total")
	if err != nil {
		return nil, err
	}

	baselines, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skyframe_uvw_baselines_total",
		Help: "Baseline UVW vectors produced by successful batches.",
	}), "skyframe_uvw_baselines_total")
	if err != nil {
		return nil, err
	}

	timesteps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skyframe_uvw_timesteps_total",
		Help: "Timesteps covered by successful UVW batches.",
	}), "skyframe_uvw_timesteps_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skyframe_uvw_batch_duration_seconds",
		Help:    "Wall time spent computing one UVW batch.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}), "skyframe_uvw_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	errs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skyframe_geometry_errors_total",
		Help: "Geometry failures, labeled by error kind.",
	}, []string{"kind"}), "skyframe_geometry_errors_total")
	if err != nil {
		return nil, err
	}

	workers, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skyframe_uvw_workers",
		Help: "Workers used by the most recent UVW series.",
	}), "skyframe_uvw_workers")
	if err != nil {
		return nil, err
	}

	return &GeometryCollector{
		gatherer:      gatherer,
		Batches:       batches,
		Baselines:     baselines,
		Timesteps:     timesteps,
		BatchDuration: duration,
		Errors:        errs,
		Workers:       workers,
	}, nil
}

// RecordBatch records one finished batch. A nil err counts timesteps and
// baselines; otherwise the error kind is counted instead.
func (c *GeometryCollector) RecordBatch(timesteps, baselines int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.BatchDuration.Observe(elapsed.Seconds())
	switch {
	case err == nil:
		c.Batches.WithLabelValues(ResultOK).Inc()
		c.Timesteps.Add(float64(timesteps))
		c.Baselines.Add(float64(baselines))
	case isCanceled(err):
		c.Batches.WithLabelValues(ResultCanceled).Inc()
	default:
		c.Batches.WithLabelValues(ResultError).Inc()
		c.RecordError(err)
	}
}

// RecordError counts err under its kind label: singular_matrix for Jones
// inversion failures, otherwise model.ErrorKind.
func (c *GeometryCollector) RecordError(err error) {
	if c == nil || err == nil {
		return
	}
	c.Errors.WithLabelValues(errorKind(err)).Inc()
}

func errorKind(err error) string {
	if errors.Is(err, jones.ErrSingularMatrix) {
		return "singular_matrix"
	}
	return model.ErrorKind(err)
}

// SetWorkers reports the size of the worker pool.
func (c *GeometryCollector) SetWorkers(n int) {
	if c == nil {
		return
	}
	c.Workers.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GeometryCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
