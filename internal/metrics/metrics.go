// Package metrics holds the prometheus counters of the quote engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder counts quote workflow events. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	transitions     *prometheus.CounterVec
	archived        *prometheus.CounterVec
	numberConflicts prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "erp_quote_transitions_total",
			Help: "Quote lifecycle transitions by action.",
		}, []string{"action"}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "erp_quotes_archived_total",
			Help: "Quotes archived, by rule (manual, rejected, outcome, expired).",
		}, []string{"rule"}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "erp_quote_number_conflicts_total",
			Help: "Quote creations aborted by a quote number collision.",
		}),
	}
	reg.MustRegister(r.transitions, r.archived, r.numberConflicts)
	return r
}

func (r *Recorder) Transition(action string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(action).Inc()
}

func (r *Recorder) Archived(rule string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.archived.WithLabelValues(rule).Add(float64(n))
}

func (r *Recorder) NumberConflict() {
	if r == nil {
		return
	}
	r.numberConflicts.Inc()
}
