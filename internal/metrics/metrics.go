// Package metrics declares the Prometheus collectors exported at /metrics.
// Collectors register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdash_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status.",
	},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetdash_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route", "method"},
	)

	ExpiryClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdash_expiry_classifications_total",
		Help: "Expiry dates classified for API responses, by resulting status.",
	},
		[]string{"status"},
	)

	TripCodesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetdash_trip_codes_generated_total",
		Help: "Trip codes drawn by the generator.",
	})

	TripCodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetdash_trip_code_collisions_total",
		Help: "Trip inserts rejected because the generated code was already taken.",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetdash_events_published_total",
		Help: "Change notifications handed to the broker, by event type and result.",
	},
		[]string{"type", "result"},
	)
)
