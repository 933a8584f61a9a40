package fares

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fareCalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fareplatform",
		Name:      "fare_calculations_total",
		Help:      "Number of successful fare calculations",
	})

	fareCalculationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fareplatform",
		Name:      "fare_calculation_errors_total",
		Help:      "Number of failed fare calculations",
	})

	fareTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fareplatform",
		Name:      "fare_total_amount",
		Help:      "Distribution of calculated total fares in minor currency units",
		Buckets:   prometheus.ExponentialBuckets(100, 2, 12),
	})
)
