// internal/service/payment/domain/port/stock.go
package port

import "context"

// StockDecision 是库存服务对一次预占请求的裁决。
// InStock 与 Locked 分开表达，"库存够但没拿到锁"是必须处理的防御分支。
type StockDecision struct {
	ProductCode       string
	InStock           bool
	Locked            bool
	Handle            string
	RequestedQuantity int
	AvailableQuantity int
}

// StockGateway 是库存服务的出站端口。
// 两个调用都是阻塞语义并带有限时：超时与不可达一律表现为
// domain.ErrCollaboratorUnavailable，由 saga 走降级路径，
// 同一 saga 实例内绝不透明重试。
type StockGateway interface {
	// Reserve 请求预占库存，返回裁决结果。
	Reserve(ctx context.Context, productCode string, quantity int) (*StockDecision, error)

	// Release 是 Reserve 的补偿操作，释放之前拿到的预占句柄。
	Release(ctx context.Context, handle string) (bool, error)
}
