// internal/service/payment/application/saga/reserve.go
package saga

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain"
)

// ReserveStockHandler 在扣款前向库存服务申请预占。
type ReserveStockHandler struct {
	NextHandler
}

func NewReserveStockHandler() *ReserveStockHandler {
	return &ReserveStockHandler{}
}

func (h *ReserveStockHandler) Handle(paymentCtx *PaymentContext) error {
	ctx, span := paymentCtx.Tracer.Start(paymentCtx.Ctx, "saga-reserve-stock")
	defer span.End()

	p := paymentCtx.Payment
	decision, err := paymentCtx.Stock.Reserve(ctx, p.ProductCode, p.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrCollaboratorUnavailable) {
			// 库存服务不可用：降级受理，留待人工/对账兜底。
			logger.Ctx(ctx).Warn().
				Str("transactionId", p.TransactionID).
				Str("productCode", p.ProductCode).
				Err(err).
				Msg("inventory unavailable, accepting payment as pending")
			if markErr := p.MarkPending("inventory service unavailable, payment accepted for later processing"); markErr != nil {
				return markErr
			}
			return nil
		}
		return errors.Wrap(err, "reserve stock")
	}

	span.SetAttributes(
		attribute.Bool("stock.inStock", decision.InStock),
		attribute.Bool("stock.locked", decision.Locked),
	)

	if !decision.InStock {
		reason := fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
			p.ProductCode, decision.RequestedQuantity, decision.AvailableQuantity)
		logger.Ctx(ctx).Info().
			Str("transactionId", p.TransactionID).
			Str("productCode", p.ProductCode).
			Msg("stock validation failed, marking payment failed")
		if markErr := p.MarkFailed(reason); markErr != nil {
			return markErr
		}
		return nil
	}

	if !decision.Locked {
		if markErr := p.MarkFailed(fmt.Sprintf("failed to lock stock for product %s", p.ProductCode)); markErr != nil {
			return markErr
		}
		return nil
	}

	handle := decision.Handle
	paymentCtx.Handle = handle
	paymentCtx.AddCompensation(func(ctx context.Context) {
		released, relErr := paymentCtx.Stock.Release(ctx, handle)
		if relErr != nil {
			// 释放失败不改变 saga 结果，留给库存侧的过期清扫兜底。
			logger.Ctx(ctx).Error().
				Str("transactionId", p.TransactionID).
				Str("lockReferenceId", handle).
				Err(relErr).
				Msg("compensation: stock release failed")
			return
		}
		logger.Ctx(ctx).Info().
			Str("transactionId", p.TransactionID).
			Str("lockReferenceId", handle).
			Bool("released", released).
			Msg("compensation: stock released")
	})

	logger.Ctx(ctx).Info().
		Str("transactionId", p.TransactionID).
		Str("lockReferenceId", handle).
		Msg("stock reserved")
	paymentCtx.Ctx = ctx
	return h.executeNext(paymentCtx)
}
