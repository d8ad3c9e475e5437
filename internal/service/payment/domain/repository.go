// internal/service/payment/domain/repository.go
package domain

import "context"

// PaymentRepository 定义了支付记录的持久化接口。
// 它位于领域层，但由基础设施层实现。
type PaymentRepository interface {
	// Save 保存一条支付记录（创建或更新）。
	Save(ctx context.Context, record *PaymentRecord) error

	// FindByTransactionID 按事务 ID 查找，不存在时返回 ErrPaymentNotFound。
	FindByTransactionID(ctx context.Context, transactionID string) (*PaymentRecord, error)
}
