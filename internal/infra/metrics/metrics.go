package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PriceComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "precifica_price_computations_total",
		Help: "Completed price pipeline runs.",
	})

	PriceComputationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "precifica_price_computation_errors_total",
		Help: "Price pipeline runs that failed before producing a breakdown.",
	})

	CacheRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "precifica_price_cache_refresh_failures_total",
		Help: "Best-effort cached price writes that failed (logged, never fatal).",
	})

	QuotesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "precifica_quotes_created_total",
		Help: "Quotes created with frozen line prices.",
	})
)
