// internal/service/payment/interfaces/metrics.go
package interfaces

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// paymentOutcomes 按终态统计受理的支付。
	// status: SUCCESS / FAILED / PENDING
	paymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_outcomes_total",
		Help: "Processed payments by terminal status.",
	}, []string{"status"})
)
