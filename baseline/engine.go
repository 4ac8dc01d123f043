package baseline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/skyframe/epoch"
	"github.com/signalsfoundry/skyframe/frames"
	"github.com/signalsfoundry/skyframe/logging"
	"github.com/signalsfoundry/skyframe/model"
)

// MetricsRecorder receives one call per finished batch. err is nil on
// success.
type MetricsRecorder interface {
	RecordBatch(timesteps, baselines int, elapsed time.Duration, err error)
}

type workerReporter interface {
	SetWorkers(n int)
}

// Engine computes UVWs for batches of timesteps on a worker pool.
type Engine struct {
	tr      *frames.Transformer
	workers int
	autos   bool
	log     logging.Logger
	metrics MetricsRecorder
	tracer  trace.Tracer
}

// Option customises Engine construction.
type Option func(*Engine)

// WithWorkers bounds the number of timesteps computed concurrently.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithAutos includes autocorrelation baselines (always zero) in results.
func WithAutos(on bool) Option {
	return func(e *Engine) { e.autos = on }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics attaches a recorder for batch counts and durations.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine returns an Engine using tr for sidereal time and hour angles.
// A nil tr means a default frames.Transformer.
func NewEngine(tr *frames.Transformer, opts ...Option) *Engine {
	if tr == nil {
		tr = frames.NewTransformer()
	}
	e := &Engine{
		tr:      tr,
		workers: runtime.GOMAXPROCS(0),
		log:     logging.Noop(),
		tracer:  otel.Tracer("github.com/signalsfoundry/skyframe/baseline"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transformer returns the transformer hour angles are taken from.
func (e *Engine) Transformer() *frames.Transformer { return e.tr }

// Workers returns the configured pool size.
func (e *Engine) Workers() int { return e.workers }

// ComputeUVW computes one timestep.
func (e *Engine) ComputeUVW(antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch) (UVWSet, error) {
	start := time.Now()
	set, err := e.computeOne(antennas, pc, site, at)
	e.record(1, set.Len(), time.Since(start), err)
	return set, err
}

func (e *Engine) computeOne(antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, at epoch.Epoch) (UVWSet, error) {
	rel, err := centred(antennas)
	if err != nil {
		return UVWSet{}, err
	}
	return project(e.tr, rel, pc, site, at, e.autos)
}

// ComputeSeries computes UVWs at every epoch in times and returns them in
// the same order. Timesteps are spread over the worker pool; the first
// failure cancels the timesteps not yet started and is returned wrapped
// with its timestep index.
func (e *Engine) ComputeSeries(ctx context.Context, antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, times []epoch.Epoch) ([]UVWSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, log := logging.WithBatchLogger(ctx, e.log)
	ctx, span := e.tracer.Start(ctx, "baseline.ComputeSeries", trace.WithAttributes(
		attribute.Int("skyframe.antennas", len(antennas)),
		attribute.Int("skyframe.timesteps", len(times)),
		attribute.Bool("skyframe.autos", e.autos),
	))
	defer span.End()

	start := time.Now()
	results, err := e.run(ctx, antennas, pc, site, times)
	elapsed := time.Since(start)

	nbl := NumBaselines(len(antennas), e.autos)
	e.record(len(times), nbl*len(times), elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn(ctx, "uvw series failed",
			logging.Int("timesteps", len(times)),
			logging.String("kind", model.ErrorKind(err)),
			logging.Err(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("skyframe.baselines", nbl*len(times)))
	log.Debug(ctx, "uvw series computed",
		logging.Int("antennas", len(antennas)),
		logging.Int("timesteps", len(times)),
		logging.Int("baselines", nbl),
		logging.Duration("elapsed", elapsed),
	)
	return results, nil
}

// ComputeSchedule computes UVWs at the centroid of every timestep of s.
func (e *Engine) ComputeSchedule(ctx context.Context, antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, s epoch.Schedule) ([]UVWSet, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return e.ComputeSeries(ctx, antennas, pc, site, s.Centroids())
}

func (e *Engine) run(parent context.Context, antennas []model.GeocentricPosition, pc model.EquatorialCoord, site model.ObservatoryLocation, times []epoch.Epoch) ([]UVWSet, error) {
	// Positions and the phase centre are shared by every timestep, so
	// reject them before any work is scheduled.
	rel, err := centred(antennas)
	if err != nil {
		return nil, err
	}
	if err := pc.Validate(); err != nil {
		return nil, err
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}
	if len(times) == 0 {
		return []UVWSet{}, nil
	}

	workers := e.workers
	if workers > len(times) {
		workers = len(times)
	}
	if wr, ok := e.metrics.(workerReporter); ok {
		wr.SetWorkers(workers)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]UVWSet, len(times))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				set, err := project(e.tr, rel, pc, site, times[idx], e.autos)
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("timestep %d: %w", idx, err)
					}
					errMu.Unlock()
					cancel()
					return
				}
				results[idx] = set
			}
		}()
	}

feed:
	for i := range times {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) record(timesteps, baselines int, elapsed time.Duration, err error) {
	if e.metrics == nil {
		return
	}
	if err != nil {
		baselines = 0
	}
	e.metrics.RecordBatch(timesteps, baselines, elapsed, err)
}
