// internal/service/inventory/application/service.go
package application

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/inventory/domain"
)

// InventoryApplicationService 编排台账的读写与预占流程。
type InventoryApplicationService struct {
	stockSvc *domain.StockService
	repo     domain.StockRepository
	tracer   trace.Tracer
}

func NewInventoryApplicationService(stockSvc *domain.StockService, repo domain.StockRepository, tracer trace.Tracer) *InventoryApplicationService {
	return &InventoryApplicationService{stockSvc: stockSvc, repo: repo, tracer: tracer}
}

// AddOrUpdateStock 是管理侧的直接登记：存在则覆盖名称/数量/描述，
// 不存在则创建。这里没有库存下限校验，预占校验只发生在 ValidateStock。
func (s *InventoryApplicationService) AddOrUpdateStock(ctx context.Context, req *StockItemRequest) (*StockItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.AddOrUpdateStock")
	defer span.End()
	span.SetAttributes(attribute.String("product.code", req.ProductCode))

	item, err := s.repo.FindByCode(ctx, req.ProductCode)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
			return nil, err
		}
		item, err = domain.NewStockItem(req.ProductCode, req.ProductName, req.Quantity, req.Description)
		if err != nil {
			return nil, err
		}
	} else {
		if err := item.Overwrite(req.ProductName, req.Quantity, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save stock item")
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("productCode", item.ProductCode).
		Int("quantity", item.Quantity).
		Int64("version", item.Version).
		Msg("stock item upserted")
	return mapToResponse(item), nil
}

// GetByProductCode 是纯读操作。
func (s *InventoryApplicationService) GetByProductCode(ctx context.Context, productCode string) (*StockItemResponse, error) {
	item, err := s.repo.FindByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}
	return mapToResponse(item), nil
}

// ValidateStock 执行原子的"校验+扣减"并返回一个预占句柄。
// 三种业务结果都以字段形式表达，不走异常路径：
//   - 库存不足:          InStock=false Locked=false
//   - 锁冲突(防御分支):   InStock=true  Locked=false
//   - 预占成功:          InStock=true  Locked=true + 句柄
//
// 商品不存在等价于零可用量：调用方只关心能不能占到货。
func (s *InventoryApplicationService) ValidateStock(ctx context.Context, req *StockValidationRequest) (*StockValidationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.ValidateStock")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.code", req.ProductCode),
		attribute.Int("product.quantity", req.Quantity),
	)

	// 先读一次当前可用量，用于失败响应里的 requested vs available
	current, err := s.repo.FindByCode(ctx, req.ProductCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &StockValidationResponse{
				ProductCode:       req.ProductCode,
				InStock:           false,
				Locked:            false,
				RequestedQuantity: req.Quantity,
				AvailableQuantity: 0,
			}, nil
		}
		span.RecordError(err)
		return nil, err
	}
	available := current.Quantity

	handle := domain.NewHandle()
	_, err = s.stockSvc.Reserve(ctx, req.ProductCode, req.Quantity, handle)
	switch {
	case err == nil:
		span.AddEvent("stock reserved")
		return &StockValidationResponse{
			ProductCode:       req.ProductCode,
			InStock:           true,
			Locked:            true,
			LockReferenceID:   handle,
			RequestedQuantity: req.Quantity,
			AvailableQuantity: available,
		}, nil

	case errors.Is(err, domain.ErrInsufficientStock):
		logger.Ctx(ctx).Warn().
			Str("productCode", req.ProductCode).
			Int("requested", req.Quantity).
			Int("available", available).
			Msg("insufficient stock")
		return &StockValidationResponse{
			ProductCode:       req.ProductCode,
			InStock:           false,
			Locked:            false,
			RequestedQuantity: req.Quantity,
			AvailableQuantity: available,
		}, nil

	case errors.Is(err, domain.ErrConflict):
		// 库存数量上看是够的，但没抢到行锁
		logger.Ctx(ctx).Warn().
			Str("productCode", req.ProductCode).
			Msg("stock row conflict, lock not obtained")
		return &StockValidationResponse{
			ProductCode:       req.ProductCode,
			InStock:           true,
			Locked:            false,
			RequestedQuantity: req.Quantity,
			AvailableQuantity: available,
		}, nil

	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "reserve failed")
		return nil, err
	}
}

// ReleaseStock 释放一个预占句柄。
// 句柄不存在返回 (false, nil)：double release 是安全的空操作。
// 回补失败返回 domain.ErrReleaseRetryable，条目已被恢复等待重试。
func (s *InventoryApplicationService) ReleaseStock(ctx context.Context, handle string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "app.ReleaseStock")
	defer span.End()
	span.SetAttributes(attribute.String("reservation.handle", handle))

	_, err := s.stockSvc.Release(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "release failed")
		return false, err
	}
	return true, nil
}

func mapToResponse(item *domain.StockItem) *StockItemResponse {
	return &StockItemResponse{
		ID:          item.ID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		Description: item.Description,
		Version:     item.Version,
	}
}
