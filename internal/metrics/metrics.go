// Package metrics exposes the console's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "organizer_console"

// Registry is the Prometheus registry for all console metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// SubmissionsTotal counts external-event submissions by mode and outcome.
var SubmissionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "External event submissions by mode and outcome",
	},
	[]string{"mode", "outcome"},
)

// UpstreamRequestsTotal counts calls to the platform API by operation and status.
var UpstreamRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Platform API calls by operation and status class",
	},
	[]string{"operation", "status"},
)
