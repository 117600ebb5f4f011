package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics are gauges projected from a single Result. Each invocation is a
// short-lived process, so there is nothing to accumulate across calls.
type Metrics struct {
	registry *prometheus.Registry

	info     *prometheus.GaugeVec
	duration *prometheus.GaugeVec
	checks   prometheus.Gauge
	logBytes prometheus.Gauge
	finished *prometheus.GaugeVec
}

// NewMetrics registers the freedisk gauges on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freedisk_task_info",
			Help: "Outcome of the last handoff invocation (always 1)",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freedisk_task_duration_seconds",
			Help: "Wall time spent by the last handoff invocation",
		}, []string{"mode"}),
		checks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "freedisk_task_liveness_checks",
			Help: "Liveness checks performed by the last wait",
		}),
		logBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "freedisk_task_log_bytes",
			Help: "Decoded bytes of cleanup log printed by the last wait",
		}),
		finished: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freedisk_task_end_timestamp_seconds",
			Help: "Unix time the last handoff invocation finished",
		}, []string{"mode"}),
	}
	m.registry.MustRegister(m.info, m.duration, m.checks, m.logBytes, m.finished)
	return m
}

// Record sets every gauge from r
func (m *Metrics) Record(r *Result) {
	mode := string(r.Mode)
	m.info.WithLabelValues(mode, string(r.Outcome)).Set(1)
	m.duration.WithLabelValues(mode).Set(r.Duration.Seconds())
	m.finished.WithLabelValues(mode).Set(float64(r.EndTime.Unix()))
	if r.Mode == ModeWait {
		m.checks.Set(float64(r.Checks))
		m.logBytes.Set(float64(r.LogBytes))
	}
}

// TextfileName is the file a result of mode is written to
func TextfileName(mode Mode) string {
	return fmt.Sprintf("freedisk_%s.prom", mode)
}

// WriteTextfile writes r in the text exposition format to dir, for a
// node_exporter textfile collector. The file is replaced atomically.
func WriteTextfile(dir string, r *Result) error {
	m := NewMetrics()
	m.Record(r)

	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create metrics dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".freedisk-*.prom.tmp")
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(dir, TextfileName(r.Mode)))
}
