// internal/service/payment/infrastructure/adapter/card_gateway_adapter.go
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain/port"
)

// SimulatedCardGateway 模拟外部支付渠道：固定延迟后返回渠道流水号。
// DeclineRule 是确定性的故障注入钩子，联调时可以让特定请求被拒付。
// 真实渠道接入时替换这个实现即可，端口不变。
type SimulatedCardGateway struct {
	latency time.Duration

	DeclineRule func(req port.ChargeRequest) error
}

var _ port.PaymentGateway = (*SimulatedCardGateway)(nil)

func NewSimulatedCardGateway() *SimulatedCardGateway {
	return &SimulatedCardGateway{latency: 200 * time.Millisecond}
}

func (g *SimulatedCardGateway) Charge(ctx context.Context, req port.ChargeRequest) (string, error) {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if g.DeclineRule != nil {
		if err := g.DeclineRule(req); err != nil {
			logger.Ctx(ctx).Warn().
				Str("merchantContext", req.MerchantContext).
				Err(err).
				Msg("simulated gateway declined charge")
			return "", err
		}
	}

	txn := uuid.New().String()
	logger.Ctx(ctx).Info().
		Str("merchantContext", req.MerchantContext).
		Float64("amount", req.Amount).
		Str("gatewayTransactionId", txn).
		Msg("simulated gateway charge accepted")
	return txn, nil
}
