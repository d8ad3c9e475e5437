// internal/service/inventory/interfaces/metrics.go
package interfaces

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reservationOutcomes 按结果维度统计预占请求。
	// outcome: reserved / insufficient_stock / conflict / error
	reservationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservation_outcomes_total",
		Help: "Stock reservation attempts by outcome.",
	}, []string{"outcome"})

	// releaseOutcomes 统计释放请求。
	// outcome: released / not_found / retryable_failure
	releaseOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_release_outcomes_total",
		Help: "Stock release attempts by outcome.",
	}, []string{"outcome"})
)
