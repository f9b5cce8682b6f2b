// Invariants are conditions the code itself guarantees; a violation means a
// bug in strand, not bad input. Raising one records an error log and bumps a
// prometheus counter so a deployment can alert on it, instead of crashing the
// process over a condition the caller may still be able to handle. Under test
// builds a violation panics so the offending test fails loudly.
//
// Do not raise invariants for conditions driven by callers or the outside
// world; a bad index from a client is an ordinary error, a nil link in the
// middle of a healthy chain is an invariant violation.

package utils

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	promclient "github.com/prometheus/client_model/go"
)

var invariantsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invariants_total",
	Help: "The total number of invariant violations",
}, []string{
	"module", // The module in which this invariant occurred.
	"type",   // The type of the invariant that occurred.
})

func RaiseInvariant(module, invariantType, msg string, args ...any) {
	invariantsMetric.WithLabelValues(module, invariantType).Inc()
	slog.With("invariant", invariantType, "module", module).Error(msg, args...)
	if IsTestMode {
		panic("invariant violated: " + invariantType)
	}
}

// GetMetricValue returns the current count of invariant violations recorded
// for the given module and type labels.
func GetMetricValue(module, invariantType string) int {
	var metric = &promclient.Metric{}
	if err := invariantsMetric.WithLabelValues(module, invariantType).Write(metric); err != nil {
		slog.Error(err.Error())
		return 0
	}
	return int(metric.Counter.GetValue())
}
