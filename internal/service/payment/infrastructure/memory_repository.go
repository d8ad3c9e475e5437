// internal/service/payment/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"

	"vertex/internal/service/payment/domain"
)

// MemoryPaymentRepository 是内存版支付仓储，用于测试和本地联调。
type MemoryPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]domain.PaymentRecord
	nextID   uint64
}

var _ domain.PaymentRepository = (*MemoryPaymentRepository)(nil)

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		payments: make(map[string]domain.PaymentRecord),
	}
}

func (r *MemoryPaymentRepository) Save(_ context.Context, p *domain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	}
	r.payments[p.TransactionID] = *p
	return nil
}

func (r *MemoryPaymentRepository) FindByTransactionID(_ context.Context, transactionID string) (*domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[transactionID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}
