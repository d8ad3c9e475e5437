// internal/service/inventory/domain/stock.go
package domain

import (
	"errors"
	"time"
)

// StockItem 是库存台账的聚合根。
// Quantity 永不为负；Version 在每次持久化变更时严格递增，
// 是检测并发丢失更新的唯一依据。
type StockItem struct {
	ID          uint64
	ProductCode string
	ProductName string
	Quantity    int
	Description string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// 工厂函数: NewStockItem 用于登记一个新的商品库存行
func NewStockItem(productCode, productName string, quantity int, description string) (*StockItem, error) {
	if productCode == "" {
		return nil, errors.New("product code is required")
	}
	if quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}
	now := time.Now()
	return &StockItem{
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasStock 判断当前库存能否覆盖 required 数量。
func (s *StockItem) HasStock(required int) bool {
	return s.Quantity >= required
}

// ReduceStock 扣减库存。调用前必须先通过 HasStock 校验，
// 这里的判断是防止台账被扣成负数的最后一道闸。
func (s *StockItem) ReduceStock(quantity int) error {
	if quantity < 0 {
		return errors.New("reduce quantity cannot be negative")
	}
	if s.Quantity < quantity {
		return ErrInsufficientStock
	}
	s.Quantity -= quantity
	s.UpdatedAt = time.Now()
	return nil
}

// IncreaseStock 回补库存（释放预占时使用）。
func (s *StockItem) IncreaseStock(quantity int) error {
	if quantity < 0 {
		return errors.New("increase quantity cannot be negative")
	}
	s.Quantity += quantity
	s.UpdatedAt = time.Now()
	return nil
}

// Overwrite 是管理侧的直接覆盖，不做库存下限校验。
func (s *StockItem) Overwrite(productName string, quantity int, description string) error {
	if quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	s.ProductName = productName
	s.Quantity = quantity
	s.Description = description
	s.UpdatedAt = time.Now()
	return nil
}
