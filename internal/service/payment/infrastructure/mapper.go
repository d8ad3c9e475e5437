// internal/service/payment/infrastructure/mapper.go
package infrastructure

import "vertex/internal/service/payment/domain"

// ToDomainPayment 将 PO 转换为领域对象。
func ToDomainPayment(m *PaymentModel) *domain.PaymentRecord {
	return &domain.PaymentRecord{
		ID:               m.ID,
		TransactionID:    m.TransactionID,
		OrderID:          m.OrderID,
		ProductCode:      m.ProductCode,
		Quantity:         m.Quantity,
		Amount:           m.Amount,
		Mode:             domain.Mode(m.Mode),
		Status:           domain.Status(m.Status),
		Timestamp:        m.Timestamp,
		FailureReason:    m.FailureReason,
		StockReferenceID: m.StockReferenceID,
		CreatedAt:        m.CreatedAt,
	}
}

// FromDomainPayment 将领域对象转换为 PO。
func FromDomainPayment(p *domain.PaymentRecord) *PaymentModel {
	return &PaymentModel{
		ID:               p.ID,
		TransactionID:    p.TransactionID,
		OrderID:          p.OrderID,
		ProductCode:      p.ProductCode,
		Quantity:         p.Quantity,
		Amount:           p.Amount,
		Mode:             string(p.Mode),
		Status:           string(p.Status),
		Timestamp:        p.Timestamp,
		FailureReason:    p.FailureReason,
		StockReferenceID: p.StockReferenceID,
		CreatedAt:        p.CreatedAt,
	}
}
