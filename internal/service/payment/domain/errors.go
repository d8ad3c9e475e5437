// internal/service/payment/domain/errors.go
package domain

import "errors"

var (
	// ErrPaymentNotFound 表示指定事务 ID 的支付记录不存在。
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrCollaboratorUnavailable 表示远端协作方（库存服务、支付网关）
	// 不可达或超时。saga 把它转换成 PENDING 降级受理，绝不向外抛裸错误。
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrInvalidPayment 表示支付请求未通过入参校验。
	ErrInvalidPayment = errors.New("invalid payment request")
)
