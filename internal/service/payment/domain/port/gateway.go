// internal/service/payment/domain/port/gateway.go
package port

import "context"

// ChargeRequest 是提交给支付网关的扣款请求。
type ChargeRequest struct {
	MerchantContext    string
	Amount             float64
	Currency           string
	PaymentMethodToken string
}

// PaymentGateway 是外部扣款通道的出站端口。
// 延迟和可用性都不受本服务控制，任何错误都会触发 saga 的补偿释放。
type PaymentGateway interface {
	// Charge 发起扣款，成功时返回网关侧的交易号。
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}
