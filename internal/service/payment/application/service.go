// internal/service/payment/application/service.go
package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/application/saga"
	"vertex/internal/service/payment/domain"
	"vertex/internal/service/payment/domain/port"
)

const processingTimeout = 15 * time.Second

// PaymentApplicationService 负责编排一次支付的完整 saga。
type PaymentApplicationService struct {
	repo      domain.PaymentRepository
	stock     port.StockGateway
	gateway   port.PaymentGateway
	publisher port.PaymentEventPublisher
	tracer    trace.Tracer
}

func NewPaymentApplicationService(
	repo domain.PaymentRepository,
	stock port.StockGateway,
	gateway port.PaymentGateway,
	publisher port.PaymentEventPublisher,
	tracer trace.Tracer,
) *PaymentApplicationService {
	return &PaymentApplicationService{
		repo:      repo,
		stock:     stock,
		gateway:   gateway,
		publisher: publisher,
		tracer:    tracer,
	}
}

// buildChain: 预占库存 -> 扣款 -> 落库 -> 发事件
func (s *PaymentApplicationService) buildChain() saga.Handler {
	reserve := saga.NewReserveStockHandler()
	reserve.
		SetNext(saga.NewChargeHandler()).
		SetNext(saga.NewRecordPaymentHandler(s.repo)).
		SetNext(saga.NewPublishHandler())
	return reserve
}

// ProcessPayment 受理一笔支付并驱动 saga 跑到终态。
// 业务性失败（库存不足、降级受理）也返回 nil error，终态体现在
// 返回的支付记录状态里；只有系统性错误才返回 error。
func (s *PaymentApplicationService) ProcessPayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "process-payment")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, processingTimeout)
	defer cancel()

	payment, err := domain.NewPaymentRecord("", req.OrderID, req.ProductCode, req.Quantity, req.Amount, domain.Mode(req.Mode))
	if err != nil {
		return nil, err
	}

	paymentCtx := &saga.PaymentContext{
		Ctx:       ctx,
		Payment:   payment,
		Tracer:    s.tracer,
		Stock:     s.stock,
		Gateway:   s.gateway,
		Publisher: s.publisher,
	}

	// 补偿和终态落库不能被已经超时的 saga 上下文连累
	settleCtx := context.WithoutCancel(ctx)

	if err := s.buildChain().Handle(paymentCtx); err != nil {
		// 系统性故障：回滚已执行的步骤，并把失败结果落库。
		logger.Ctx(ctx).Error().
			Str("transactionId", payment.TransactionID).
			Err(err).
			Msg("payment saga failed, triggering compensation")
		paymentCtx.TriggerCompensation(settleCtx)
		if markErr := payment.MarkFailed(fmt.Sprintf("payment processing error: %v", err)); markErr != nil {
			logger.Ctx(ctx).Error().
				Str("transactionId", payment.TransactionID).
				Err(markErr).
				Msg("could not mark payment failed")
		}
	}

	// 成功分支已在 saga 里落库；业务终态（FAILED/PENDING）在这里落。
	if payment.Status != domain.StatusSuccess {
		if saveErr := s.repo.Save(settleCtx, payment); saveErr != nil {
			logger.Ctx(ctx).Error().
				Str("transactionId", payment.TransactionID).
				Err(saveErr).
				Msg("failed to persist payment terminal state")
			return nil, saveErr
		}
	}

	return toResponse(payment), nil
}

// GetPaymentByTransactionID 查询一笔支付的当前状态。
func (s *PaymentApplicationService) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*PaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "get-payment")
	defer span.End()

	payment, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return toResponse(payment), nil
}

func toResponse(p *domain.PaymentRecord) *PaymentResponse {
	return &PaymentResponse{
		TransactionID:    p.TransactionID,
		OrderID:          p.OrderID,
		ProductCode:      p.ProductCode,
		Quantity:         p.Quantity,
		Amount:           p.Amount,
		Mode:             string(p.Mode),
		Status:           string(p.Status),
		FailureReason:    p.FailureReason,
		StockReferenceID: p.StockReferenceID,
		Timestamp:        p.Timestamp.UnixMilli(),
	}
}
