// internal/service/inventory/domain/service.go
package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"vertex/internal/pkg/logger"
)

// StockService 实现原子的"校验+扣减"与"释放+回补"。
// 串行化语义由 StockRepository.Mutate 提供，这里只负责算法本身：
// 同一商品上的并发预占不可能同时看到相同的可用数量。
type StockService struct {
	repo     StockRepository
	registry ReservationRegistry
}

func NewStockService(repo StockRepository, registry ReservationRegistry) *StockService {
	return &StockService{repo: repo, registry: registry}
}

// Reserve 在一个可串行化事务内完成校验与扣减，成功后登记预占。
// 返回扣减后的台账行；失败时没有任何部分写入。
func (s *StockService) Reserve(ctx context.Context, productCode string, quantity int, handle string) (*StockItem, error) {
	if quantity < 0 {
		return nil, errors.New("reserve quantity cannot be negative")
	}

	item, err := s.repo.Mutate(ctx, productCode, func(item *StockItem) error {
		if !item.HasStock(quantity) {
			return ErrInsufficientStock
		}
		return item.ReduceStock(quantity)
	})
	if err != nil {
		return nil, err
	}

	if err := s.registry.Insert(ctx, Reservation{
		Handle:      handle,
		ProductCode: productCode,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
	}); err != nil {
		// 扣减已提交但登记失败，立即把数量补回去，避免悬空的库存赤字。
		if _, compErr := s.repo.Mutate(ctx, productCode, func(item *StockItem) error {
			return item.IncreaseStock(quantity)
		}); compErr != nil {
			logger.Ctx(ctx).Error().Err(compErr).
				Str("productCode", productCode).
				Str("handle", handle).
				Msg("CRITICAL: failed to roll back stock decrement after registry insert failure")
		}
		return nil, errors.Wrap(err, "failed to register reservation")
	}

	logger.Ctx(ctx).Info().
		Str("productCode", productCode).
		Int("quantity", quantity).
		Str("handle", handle).
		Msg("stock reserved")
	return item, nil
}

// Release 释放一条预占，把数量补回台账。
// 句柄先被原子认领，回补失败时条目会被恢复，预占永远不会被悄悄丢掉。
// 数量为 0 的释放同样走完整的加锁/持久化路径，保持版本序一致。
func (s *StockService) Release(ctx context.Context, handle string) (*StockItem, error) {
	res, err := s.registry.Claim(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			// 幂等空操作：重复释放是安全的。
			logger.Ctx(ctx).Warn().Str("handle", handle).Msg("no reservation found for handle")
			return nil, ErrReservationNotFound
		}
		return nil, errors.Wrap(err, "failed to claim reservation")
	}

	item, err := s.repo.Mutate(ctx, res.ProductCode, func(item *StockItem) error {
		return item.IncreaseStock(res.Quantity)
	})
	if err != nil {
		// 回补失败：恢复注册表条目，让这条预占保持可发现，等待重试。
		if insErr := s.registry.Insert(ctx, *res); insErr != nil {
			logger.Ctx(ctx).Error().Err(insErr).
				Str("handle", handle).
				Msg("CRITICAL: failed to reinstate reservation after release failure")
		}
		logger.Ctx(ctx).Error().Err(err).
			Str("productCode", res.ProductCode).
			Str("handle", handle).
			Msg("failed to restore stock, reservation kept for retry")
		return nil, errors.Wrapf(ErrReleaseRetryable, "restore stock for %s: %v", res.ProductCode, err)
	}

	logger.Ctx(ctx).Info().
		Str("productCode", res.ProductCode).
		Int("quantity", res.Quantity).
		Str("handle", handle).
		Msg("stock released")
	return item, nil
}
