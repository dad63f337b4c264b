package remote

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels of the fetch counter.
const (
	outcomeOK          = "ok"
	outcomeNotModified = "not_modified"
	outcomeError       = "error"
)

// Metrics counts remote document retrievals.
type Metrics struct {
	Fetches  *prometheus.CounterVec
	Attempts prometheus.Counter
	Bytes    prometheus.Counter
}

// NewMetrics creates the fetch metrics and registers them with reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ontoenv",
			Subsystem: "fetch",
			Name:      "documents_total",
			Help:      "Remote ontology fetches by outcome.",
		}, []string{"outcome"}),
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoenv",
			Subsystem: "fetch",
			Name:      "attempts_total",
			Help:      "HTTP requests issued for remote ontologies, retries included.",
		}),
		Bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoenv",
			Subsystem: "fetch",
			Name:      "bytes_total",
			Help:      "Bytes of remote ontology documents received.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Fetches, m.Attempts, m.Bytes)
	}
	return m
}
