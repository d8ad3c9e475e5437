// internal/service/payment/infrastructure/gorm_model.go
package infrastructure

import "time"

// PaymentModel 是支付记录的数据库映射 (PO)。
type PaymentModel struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	TransactionID    string    `gorm:"column:transaction_id;type:varchar(64);uniqueIndex;not null"`
	OrderID          string    `gorm:"column:order_id;type:varchar(64);index;not null"`
	ProductCode      string    `gorm:"column:product_code;type:varchar(64);not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	Amount           float64   `gorm:"column:amount;type:decimal(12,2);not null"`
	Mode             string    `gorm:"column:payment_mode;type:varchar(32);not null"`
	Status           string    `gorm:"column:payment_status;type:varchar(16);not null"`
	Timestamp        time.Time `gorm:"column:settled_at"`
	FailureReason    string    `gorm:"column:failure_reason;type:varchar(512)"`
	StockReferenceID string    `gorm:"column:stock_reference_id;type:varchar(64)"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
