// internal/service/payment/application/saga/charge.go
package saga

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain/port"
)

// ChargeHandler 调用支付渠道完成实际扣款。
type ChargeHandler struct {
	NextHandler
}

func NewChargeHandler() *ChargeHandler {
	return &ChargeHandler{}
}

func (h *ChargeHandler) Handle(paymentCtx *PaymentContext) error {
	ctx, span := paymentCtx.Tracer.Start(paymentCtx.Ctx, "saga-charge")
	defer span.End()

	p := paymentCtx.Payment
	gatewayTxn, err := paymentCtx.Gateway.Charge(ctx, port.ChargeRequest{
		MerchantContext:    p.OrderID,
		Amount:             p.Amount,
		Currency:           "INR",
		PaymentMethodToken: string(p.Mode),
	})
	if err != nil {
		return errors.Wrap(err, "charge payment")
	}

	span.SetAttributes(attribute.String("gateway.transactionId", gatewayTxn))
	logger.Ctx(ctx).Info().
		Str("transactionId", p.TransactionID).
		Str("gatewayTransactionId", gatewayTxn).
		Msg("payment charged")

	paymentCtx.Ctx = ctx
	return h.executeNext(paymentCtx)
}
