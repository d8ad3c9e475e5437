// internal/service/payment/application/saga/publish.go
package saga

import (
	"vertex/internal/pkg/logger"
)

// PublishHandler 对外广播支付完成事件。发布失败只记日志，
// 不回滚已经落库的支付结果。
type PublishHandler struct {
	NextHandler
}

func NewPublishHandler() *PublishHandler {
	return &PublishHandler{}
}

func (h *PublishHandler) Handle(paymentCtx *PaymentContext) error {
	ctx, span := paymentCtx.Tracer.Start(paymentCtx.Ctx, "saga-publish-event")
	defer span.End()

	p := paymentCtx.Payment
	if err := paymentCtx.Publisher.PaymentCompleted(ctx, p); err != nil {
		logger.Ctx(ctx).Error().
			Str("transactionId", p.TransactionID).
			Err(err).
			Msg("failed to publish payment event")
	} else {
		logger.Ctx(ctx).Info().
			Str("transactionId", p.TransactionID).
			Msg("payment event published")
	}

	paymentCtx.Ctx = ctx
	return h.executeNext(paymentCtx)
}
