package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight_client",
			Name:      "requests_total",
			Help:      "API requests attempted, by endpoint group.",
		},
		[]string{"group"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight_client",
			Name:      "request_failures_total",
			Help:      "API requests that failed in transport or returned non-2xx.",
		},
		[]string{"group"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insight_client",
			Name:      "request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"group"},
	)
)
