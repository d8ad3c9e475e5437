// internal/service/payment/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"vertex/internal/service/payment/domain"
)

// GormPaymentRepository 是 PaymentRepository 的 MySQL 实现。
type GormPaymentRepository struct {
	db *gorm.DB
}

var _ domain.PaymentRepository = (*GormPaymentRepository)(nil)

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Save(ctx context.Context, p *domain.PaymentRecord) error {
	model := FromDomainPayment(p)
	if model.ID == 0 {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return errors.Wrap(err, "create payment")
		}
		p.ID = model.ID
		return nil
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return errors.Wrap(err, "update payment")
	}
	return nil
}

func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.PaymentRecord, error) {
	var model PaymentModel
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, errors.Wrap(err, "find payment by transaction id")
	}
	return ToDomainPayment(&model), nil
}
