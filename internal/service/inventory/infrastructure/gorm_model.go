// internal/service/inventory/infrastructure/gorm_model.go
package infrastructure

import (
	"time"
)

// StockItemModel 对应数据库中的 stock_item 表
type StockItemModel struct {
	ID          uint64 `gorm:"primaryKey"`
	ProductCode string `gorm:"uniqueIndex;size:64;not null"`
	ProductName string `gorm:"size:255"`
	Quantity    int    `gorm:"not null"`
	Description string `gorm:"type:text"`
	// Version 用于乐观锁校验，每次写入 +1，配合行锁双重保险
	Version   int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定 GORM 应该使用的表名
func (StockItemModel) TableName() string {
	return "stock_item"
}
