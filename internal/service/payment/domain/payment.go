// internal/service/payment/domain/payment.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status 定义了一次支付尝试的生命周期状态
type Status string

const (
	StatusPending  Status = "PENDING"  // 降级受理：未经库存确认，等待人工/后台补偿
	StatusSuccess  Status = "SUCCESS"  // 扣款成功，库存预占已挂接
	StatusFailed   Status = "FAILED"   // 终态失败（库存不足、锁冲突或扣款失败）
	StatusRefunded Status = "REFUNDED" // 预留给带外退款流程
	StatusUnknown  Status = "UNKNOWN"  // 预留给状态查询兜底，saga 本身永远不会赋这个值
)

// Mode 是支付方式枚举。
type Mode string

const (
	ModeCreditCard   Mode = "CREDIT_CARD"
	ModeDebitCard    Mode = "DEBIT_CARD"
	ModeUPI          Mode = "UPI"
	ModeWallet       Mode = "WALLET"
	ModeBankTransfer Mode = "BANK_TRANSFER"
)

// ValidMode 校验支付方式取值。
func ValidMode(m Mode) bool {
	switch m {
	case ModeCreditCard, ModeDebitCard, ModeUPI, ModeWallet, ModeBankTransfer:
		return true
	}
	return false
}

// PaymentRecord 是一次支付尝试的完整记录。
// 单次尝试内状态只会流转一次（没有原地重试的建模）；
// StockReferenceID 只在实际拿到预占时写入，把这笔支付
// 和它将来可能需要的补偿动作关联起来。
type PaymentRecord struct {
	ID               uint64
	TransactionID    string
	OrderID          string
	ProductCode      string
	Quantity         int
	Amount           float64
	Mode             Mode
	Status           Status
	Timestamp        time.Time
	FailureReason    string
	StockReferenceID string
	CreatedAt        time.Time
}

// 工厂函数: NewPaymentRecord 创建一次新的支付尝试，事务 ID 缺省自动生成。
func NewPaymentRecord(transactionID, orderID, productCode string, quantity int, amount float64, mode Mode) (*PaymentRecord, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidPayment)
	}
	if productCode == "" {
		return nil, fmt.Errorf("%w: product code is required", ErrInvalidPayment)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidPayment)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if !ValidMode(mode) {
		return nil, fmt.Errorf("%w: unsupported payment mode %q", ErrInvalidPayment, mode)
	}
	if transactionID == "" {
		transactionID = uuid.New().String()
	}
	return &PaymentRecord{
		TransactionID: transactionID,
		OrderID:       orderID,
		ProductCode:   productCode,
		Quantity:      quantity,
		Amount:        amount,
		Mode:          mode,
		CreatedAt:     time.Now(),
	}, nil
}

// terminal 判断状态是否已经定格。
func (p *PaymentRecord) terminal() bool {
	return p.Status != ""
}

// MarkSuccess 定格为成功，并挂接库存预占句柄。
func (p *PaymentRecord) MarkSuccess(stockReferenceID string) error {
	if p.terminal() {
		return errors.New("payment status already settled")
	}
	p.Status = StatusSuccess
	p.StockReferenceID = stockReferenceID
	p.Timestamp = time.Now()
	return nil
}

// MarkFailed 定格为失败并记录原因。
func (p *PaymentRecord) MarkFailed(reason string) error {
	if p.terminal() {
		return errors.New("payment status already settled")
	}
	p.Status = StatusFailed
	p.FailureReason = reason
	p.Timestamp = time.Now()
	return nil
}

// MarkPending 进入降级受理态：没有库存确认，不发起扣款。
func (p *PaymentRecord) MarkPending(reason string) error {
	if p.terminal() {
		return errors.New("payment status already settled")
	}
	p.Status = StatusPending
	p.FailureReason = reason
	p.Timestamp = time.Now()
	return nil
}
