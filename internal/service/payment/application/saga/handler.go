// internal/service/payment/application/saga/handler.go
package saga

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain"
	"vertex/internal/service/payment/domain/port"
)

// PaymentContext 在 Saga 流程中传递上下文数据。
// 所有外部依赖都是抽象接口，便于逐个替换和测试。
type PaymentContext struct {
	Ctx     context.Context
	Payment *domain.PaymentRecord // <-- 传递核心领域对象
	Tracer  trace.Tracer

	// 依赖出站端口 (Interfaces)
	Stock     port.StockGateway
	Gateway   port.PaymentGateway
	Publisher port.PaymentEventPublisher

	// Handle 是本次 saga 拿到的预占句柄，成功定格时才挂到支付记录上。
	Handle string

	// Saga 补偿栈：后注册的先执行
	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 注册一个补偿动作。
func (c *PaymentContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation 按后进先出的顺序执行所有已注册的补偿。
func (c *PaymentContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().
		Str("transactionId", c.Payment.TransactionID).
		Int("count", len(c.compensations)).
		Msg("executing saga compensation functions")
	for _, comp := range c.compensations {
		comp(ctx)
	}
	c.compensations = nil
}

// Handler 是 saga 步骤的统一接口。
// 业务性的终态（库存不足、降级受理）由步骤直接定格支付状态并
// 截断链路（返回 nil 且不调用 executeNext）；只有需要触发补偿的
// 真故障才以 error 形式向上传递。
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(paymentCtx *PaymentContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(paymentCtx *PaymentContext) error {
	if h.next != nil {
		return h.next.Handle(paymentCtx)
	}
	return nil
}
