// internal/service/payment/domain/port/events.go
package port

import (
	"context"

	"vertex/internal/service/payment/domain"
)

// PaymentEventPublisher 是支付完成事件的出站端口。
// 投递语义是 at-least-once，下游消费者按 transactionId 去重。
// 发布失败不做补偿：支付本身已经成功，事件投递是下游的关注点。
type PaymentEventPublisher interface {
	PaymentCompleted(ctx context.Context, record *domain.PaymentRecord) error
}
