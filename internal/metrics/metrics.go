// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PastesCreated counts successfully persisted pastes.
var PastesCreated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "aurapaste_pastes_created_total",
		Help: "Number of pastes created.",
	},
)

// PasteViews counts successful view-with-increment retrievals.
var PasteViews = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "aurapaste_paste_views_total",
		Help: "Number of paste views counted.",
	},
)

// ListDegraded counts listing requests answered with an empty result because
// the store could not be queried. This is the status channel that keeps
// degraded listings distinguishable from genuinely empty ones.
var ListDegraded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aurapaste_list_degraded_total",
		Help: "Listing queries degraded to an empty result after a store failure.",
	},
	[]string{"query"},
)

// RequestDuration observes HTTP handler latency per route.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "aurapaste_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

func init() {
	prometheus.MustRegister(PastesCreated)
	prometheus.MustRegister(PasteViews)
	prometheus.MustRegister(ListDegraded)
	prometheus.MustRegister(RequestDuration)
}
