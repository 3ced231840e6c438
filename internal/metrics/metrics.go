// Package metrics exposes Prometheus collectors for credential and token
// outcomes. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskkeeper"

// Operation labels.
const (
	OpRegister = "register"
	OpVerify   = "verify"
	OpIssue    = "issue"
	OpValidate = "validate"
)

// Outcome labels. Token validation failures keep their kind so forged and
// expired tokens can be told apart on dashboards.
const (
	OutcomeSuccess          = "success"
	OutcomeDuplicate        = "duplicate"
	OutcomeRejected         = "rejected"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeUnavailable      = "unavailable"
	OutcomeError            = "error"
	OutcomeExpired          = "expired"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeMalformed        = "malformed"
)

type Collector struct {
	credentialOps *prometheus.CounterVec
	tokenOps      *prometheus.CounterVec
	kdfDuration   prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		credentialOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_operations_total",
			Help:      "Credential store operations by outcome.",
		}, []string{"operation", "outcome"}),
		tokenOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_operations_total",
			Help:      "Token service operations by outcome.",
		}, []string{"operation", "outcome"}),
		kdfDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kdf_duration_seconds",
			Help:      "Time spent deriving password keys.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
	reg.MustRegister(c.credentialOps, c.tokenOps, c.kdfDuration)
	return c
}

func (c *Collector) CredentialOutcome(operation, outcome string) {
	if c == nil {
		return
	}
	c.credentialOps.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) TokenOutcome(operation, outcome string) {
	if c == nil {
		return
	}
	c.tokenOps.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) ObserveKDF(d time.Duration) {
	if c == nil {
		return
	}
	c.kdfDuration.Observe(d.Seconds())
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
