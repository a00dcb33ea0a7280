package revenue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	estimatesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "freeagent_client",
		Subsystem: "revenue",
		Name:      "estimates_skipped_total",
		Help:      "Estimates left out of a projection because their detail could not be fetched.",
	})

	itemsWithoutMonthTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "freeagent_client",
		Subsystem: "revenue",
		Name:      "items_without_month_total",
		Help:      "Priced estimate items whose description names no month.",
	})
)
