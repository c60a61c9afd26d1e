package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"analytics/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions in tests.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	sum := m.GetSummary()
	return sum.GetSampleCount(), sum.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{
			name:    "missing gateway URL returns error",
			jobName: "analytics_pipeline",
			wantErr: true,
		},
		{
			name:        "empty job name uses default",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "analytics",
		},
		{
			name:        "explicit job name is preserved",
			jobName:     "nightly",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "nightly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend(%q, %q) error = nil, want non-nil", tt.jobName, tt.gatewayURL)
				}
				if b != nil {
					t.Fatalf("NewBackend(%q, %q) backend = %v, want nil", tt.jobName, tt.gatewayURL, b)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q, %q) error = %v, want nil", tt.jobName, tt.gatewayURL, err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("backend.jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
			if b.stepCounter == nil || b.stepDuration == nil || b.rowCounter == nil {
				t.Fatalf("collectors not initialized: %+v", b)
			}
		})
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("analytics_pipeline", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.StepTotal, 3, metrics.Labels{"step": "load", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 5, metrics.Labels{"kind": metrics.RowsLoaded})
	b.IncCounter(metrics.RowsTotal, 2, metrics.Labels{"kind": metrics.RowsLoaded})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"kind": metrics.RowsLoaded})

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("load", "success")); got != 3 {
		t.Fatalf("stepCounter value = %v, want 3", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues(metrics.RowsLoaded)); got != 7 {
		t.Fatalf("rowCounter value = %v, want 7", got)
	}
}

// TestIncCounterNilMetrics ensures a zero-value Backend does not panic.
func TestIncCounterNilMetrics(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "s", "status": "success"})
	b.IncCounter(metrics.RowsTotal, 1, metrics.Labels{"kind": metrics.RowsLoaded})
	b.ObserveHistogram(metrics.StepDurationSeconds, 1, metrics.Labels{})
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("analytics_pipeline", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	lbls := metrics.Labels{"step": "report", "status": "success"}

	b.ObserveHistogram(metrics.StepDurationSeconds, 1.5, lbls)
	b.ObserveHistogram("other_metric", 2.0, lbls)

	count, sum := readSummaryCountSum(t, b.stepDuration, "report", "success")
	if count != 1 || sum != 1.5 {
		t.Fatalf("summary = (%d, %v), want (1, 1.5)", count, sum)
	}
}

// TestFlush verifies that Flush pushes the registry to the Pushgateway.
func TestFlush(t *testing.T) {
	t.Parallel()

	type pushRequestInfo struct {
		method  string
		path    string
		bodyLen int
	}
	reqCh := make(chan pushRequestInfo, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushRequestInfo{method: r.Method, path: r.URL.Path, bodyLen: len(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("analytics_pipeline", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "load", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushRequestInfo
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() did not result in any HTTP request to the Pushgateway")
	}
	if got.method != http.MethodPut {
		t.Fatalf("push method = %q, want PUT", got.method)
	}
	if got.path != "/metrics/job/analytics_pipeline" {
		t.Fatalf("push path = %q", got.path)
	}
	if got.bodyLen == 0 {
		t.Fatalf("push request body length = 0, want > 0")
	}
}

// BenchmarkIncCounterStep measures the cost of incrementing the step counter
// through the Backend abstraction.
func BenchmarkIncCounterStep(b *testing.B) {
	backend, err := NewBackend("analytics", "http://example.com")
	if err != nil {
		b.Fatalf("NewBackend() error = %v", err)
	}
	labels := metrics.Labels{"step": "load", "status": "success"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.IncCounter(metrics.StepTotal, 1, labels)
	}
}
