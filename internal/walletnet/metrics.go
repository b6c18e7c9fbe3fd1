package walletnet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// rpcCalls and rpcDuration give an operator visibility into which wallet
// operations are slow or failing without parsing logs.
var (
	rpcCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletcore",
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Number of network client calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "walletcore",
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Latency of network client calls by operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(rpcCalls, rpcDuration)
}

// recordCall records one completed call's latency and outcome. Call via
// defer recordCall(operation, time.Now())(&err) at the top of every method
// that reaches the RPC client, mirroring the teacher's defer-based metrics
// recording.
func recordCall(operation string, start time.Time) func(errp *error) {
	return func(errp *error) {
		outcome := "ok"
		if errp != nil && *errp != nil {
			outcome = "error"
		}
		rpcCalls.WithLabelValues(operation, outcome).Inc()
		rpcDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
