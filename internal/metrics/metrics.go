package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"markread_demo/internal/domain"
)

type Metrics struct {
	outcomes    *prometheus.CounterVec
	transitions prometheus.Counter
}

// New registers the mark-read collectors on reg. Every outcome label is
// initialised so it is exported before the first request.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notification",
			Name:      "mark_read_total",
			Help:      "Mark-as-read requests by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notification",
			Name:      "read_transitions_total",
			Help:      "Notifications moved from unread to read.",
		}),
	}
	for _, c := range []prometheus.Collector{m.outcomes, m.transitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	for _, o := range domain.Outcomes() {
		m.outcomes.WithLabelValues(string(o))
	}
	return m, nil
}

// NewDefault registers on the global prometheus registry.
func NewDefault() (*Metrics, error) {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) ObserveOutcome(outcome domain.Outcome) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) ObserveTransition() {
	if m == nil {
		return
	}
	m.transitions.Inc()
}
