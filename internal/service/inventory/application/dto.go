// internal/service/inventory/application/dto.go
package application

// StockItemRequest 是管理侧登记/调整库存的入参。
type StockItemRequest struct {
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// StockItemResponse 是台账行的对外视图。
type StockItemResponse struct {
	ID          uint64 `json:"id"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
	Version     int64  `json:"version"`
}

// StockValidationRequest 是"校验并锁定库存"的入参。
type StockValidationRequest struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

// StockValidationResponse 描述一次预占尝试的结果。
// InStock 与 Locked 分开表达：库存充足但没拿到锁（并发冲突）时
// InStock=true Locked=false，调用方可以据此选择重试。
type StockValidationResponse struct {
	ProductCode       string `json:"productCode"`
	InStock           bool   `json:"inStock"`
	Locked            bool   `json:"locked"`
	LockReferenceID   string `json:"lockReferenceId,omitempty"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// StockReleaseRequest 是释放预占的入参。
type StockReleaseRequest struct {
	LockReferenceID string `json:"lockReferenceId"`
}
