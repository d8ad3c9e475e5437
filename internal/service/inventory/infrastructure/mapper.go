// internal/service/inventory/infrastructure/mapper.go
package infrastructure

import (
	"vertex/internal/service/inventory/domain"
)

// ToDomainStockItem 将数据库模型转换为领域模型
func ToDomainStockItem(model *StockItemModel) *domain.StockItem {
	if model == nil {
		return nil
	}
	return &domain.StockItem{
		ID:          model.ID,
		ProductCode: model.ProductCode,
		ProductName: model.ProductName,
		Quantity:    model.Quantity,
		Description: model.Description,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// FromDomainStockItem 将领域模型转换为数据库模型
func FromDomainStockItem(item *domain.StockItem) *StockItemModel {
	if item == nil {
		return nil
	}
	return &StockItemModel{
		ID:          item.ID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Description: item.Description,
		Version:     item.Version,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
