package cacheinfra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	tierSliding   = "sliding"
	tierReference = "reference"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freeagent_client",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by tier and result (hit, miss, expired).",
		},
		[]string{"tier", "result"},
	)

	cacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "freeagent_client",
			Subsystem: "cache",
			Name:      "invalidated_keys_total",
			Help:      "Keys removed by explicit invalidation.",
		},
	)
)
