package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/signalsfoundry/skyframe/jones"
	"github.com/signalsfoundry/skyframe/model"
)

func TestRecordBatchSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}

	collector.RecordBatch(4, 4*8128, 25*time.Millisecond, nil)
	collector.RecordBatch(1, 8128, 5*time.Millisecond, nil)

	if got := testutil.ToFloat64(collector.Batches.WithLabelValues(ResultOK)); got != 2 {
		t.Fatalf("skyframe_uvw_batches_total{result=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Baselines); got != 5*8128 {
		t.Fatalf("skyframe_uvw_baselines_total = %v, want %d", got, 5*8128)
	}
	if got := testutil.ToFloat64(collector.Timesteps); got != 5 {
		t.Fatalf("skyframe_uvw_timesteps_total = %v, want 5", got)
	}
	if count := histogramSampleCount(t, reg, "skyframe_uvw_batch_duration_seconds", nil); count != 2 {
		t.Fatalf("batch duration sample_count = %d, want 2", count)
	}
}

func TestRecordBatchFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}

	posErr := fmt.Errorf("timestep 3: %w", &model.PositionError{Index: 2})
	collector.RecordBatch(10, 0, time.Millisecond, posErr)
	collector.RecordBatch(10, 0, time.Millisecond, context.Canceled)
	collector.RecordError(&model.CoordinateError{Quantity: "declination", Value: 2})
	collector.RecordError(nil)
	_, singular := jones.Zero().Inverse()
	collector.RecordError(fmt.Errorf("antenna 1: %w", singular))

	if got := testutil.ToFloat64(collector.Batches.WithLabelValues(ResultError)); got != 1 {
		t.Fatalf("result=error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Batches.WithLabelValues(ResultCanceled)); got != 1 {
		t.Fatalf("result=canceled = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Errors.WithLabelValues("invalid_position")); got != 1 {
		t.Fatalf("kind=invalid_position = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Errors.WithLabelValues("invalid_coordinate")); got != 1 {
		t.Fatalf("kind=invalid_coordinate = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Baselines); got != 0 {
		t.Fatalf("failed batches counted baselines: %v", got)
	}
	if got := testutil.ToFloat64(collector.Errors.WithLabelValues("singular_matrix")); got != 1 {
		t.Fatalf("kind=singular_matrix = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.Errors); got != 3 {
		t.Fatalf("error series = %d, want 3", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *GeometryCollector
	c.RecordBatch(1, 1, time.Second, nil)
	c.RecordError(errors.New("x"))
	c.SetWorkers(4)
}

func TestRegistrationIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	second.RecordBatch(1, 3, time.Millisecond, nil)
	if got := testutil.ToFloat64(first.Baselines); got != 3 {
		t.Fatalf("collectors not shared: %v", got)
	}
}

func TestRegistrationConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skyframe_uvw_baselines_total",
		Help: "conflicting type",
	}))
	if _, err := NewGeometryCollector(reg); err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestMetricsHandlerExposesGeometryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}
	collector.RecordBatch(2, 6, time.Millisecond, nil)
	collector.RecordError(&model.ConvergenceError{})
	collector.SetWorkers(8)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"skyframe_uvw_batches_total",
		"skyframe_uvw_baselines_total",
		"skyframe_uvw_timesteps_total",
		"skyframe_uvw_batch_duration_seconds",
		`skyframe_geometry_errors_total{kind="convergence_failure"} 1`,
		"skyframe_uvw_workers 8",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output:\n%s", metric, body)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
