package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once        sync.Once
	runDuration prom.Histogram
	runOutcome  *prom.CounterVec
	filesStaged prom.Counter
	bytesStaged prom.Counter
	watchEvents *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "assetstage",
			Name:      "run_duration_seconds",
			Help:      "Duration of staging runs",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetstage",
			Name:      "runs_total",
			Help:      "Staging runs by final outcome",
		}, []string{"outcome"})
		pr.filesStaged = prom.NewCounter(prom.CounterOpts{
			Namespace: "assetstage",
			Name:      "files_staged_total",
			Help:      "Total files copied into the site output",
		})
		pr.bytesStaged = prom.NewCounter(prom.CounterOpts{
			Namespace: "assetstage",
			Name:      "bytes_staged_total",
			Help:      "Total bytes copied into the site output",
		})
		pr.watchEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetstage",
			Name:      "watch_events_total",
			Help:      "Filesystem events observed in watch mode by operation",
		}, []string{"op"})
		reg.MustRegister(pr.runDuration, pr.runOutcome, pr.filesStaged, pr.bytesStaged, pr.watchEvents)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddFilesStaged(n int) {
	if p == nil || p.filesStaged == nil {
		return
	}
	p.filesStaged.Add(float64(n))
}

func (p *PrometheusRecorder) AddBytesStaged(n int64) {
	if p == nil || p.bytesStaged == nil {
		return
	}
	p.bytesStaged.Add(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(op string) {
	if p == nil || p.watchEvents == nil {
		return
	}
	p.watchEvents.WithLabelValues(op).Inc()
}
