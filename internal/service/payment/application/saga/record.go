// internal/service/payment/application/saga/record.go
package saga

import (
	"github.com/pkg/errors"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain"
)

// RecordPaymentHandler 将成功结果落库。扣款已经发生，此处失败
// 必须触发补偿把库存还回去。
type RecordPaymentHandler struct {
	NextHandler
	repo domain.PaymentRepository
}

func NewRecordPaymentHandler(repo domain.PaymentRepository) *RecordPaymentHandler {
	return &RecordPaymentHandler{repo: repo}
}

func (h *RecordPaymentHandler) Handle(paymentCtx *PaymentContext) error {
	ctx, span := paymentCtx.Tracer.Start(paymentCtx.Ctx, "saga-record-payment")
	defer span.End()

	p := paymentCtx.Payment
	if err := p.MarkSuccess(paymentCtx.Handle); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, p); err != nil {
		// 落库失败：撤销刚才的定格，让上层补偿后改判为失败。
		p.Status = ""
		p.StockReferenceID = ""
		return errors.Wrap(err, "persist payment record")
	}

	logger.Ctx(ctx).Info().
		Str("transactionId", p.TransactionID).
		Str("status", string(p.Status)).
		Msg("payment record persisted")

	paymentCtx.Ctx = ctx
	return h.executeNext(paymentCtx)
}
