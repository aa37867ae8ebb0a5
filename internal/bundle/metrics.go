package bundle

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts import activity. A nil *Metrics is a no-op.
type Metrics struct {
	records *prometheus.CounterVec
	runs    *prometheus.CounterVec
	exports prometheus.Counter
}

// NewMetrics registers the import/export collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "algosync_import_records_total",
			Help: "Import records processed, by outcome.",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "algosync_import_runs_total",
			Help: "Completed import runs, by summary level.",
		}, []string{"level"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "algosync_exports_total",
			Help: "Bundles exported.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.records, m.runs, m.exports)
	}
	return m
}

func (m *Metrics) observeRecord(o Outcome) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) observeRun(s Summary) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(s.Level).Inc()
}

func (m *Metrics) observeExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}
