// internal/service/inventory/application/sweeper.go
package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vertex/internal/pkg/logger"
	"vertex/internal/service/inventory/domain"
)

// ReservationSweeper 周期性地回收超过 TTL 仍未释放的预占。
// 崩溃或一直没有补偿动作的 saga 留下的库存赤字由它兜底：
// 回收走的就是正常的 Release 路径，失败的条目会被恢复，
// 留给下一轮扫描继续重试。
type ReservationSweeper struct {
	registry domain.ReservationRegistry
	stockSvc *domain.StockService
	ttl      time.Duration
	interval time.Duration
	tracer   trace.Tracer
}

func NewReservationSweeper(registry domain.ReservationRegistry, stockSvc *domain.StockService, ttl, interval time.Duration, tracer trace.Tracer) *ReservationSweeper {
	return &ReservationSweeper{
		registry: registry,
		stockSvc: stockSvc,
		ttl:      ttl,
		interval: interval,
		tracer:   tracer,
	}
}

// Run 阻塞运行扫描循环，直到 ctx 被取消。
func (s *ReservationSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Ctx(ctx).Info().
		Dur("ttl", s.ttl).
		Dur("interval", s.interval).
		Msg("reservation sweeper started")

	for {
		select {
		case <-ctx.Done():
			logger.Logger.Info().Msg("reservation sweeper stopped")
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce 执行一轮回收，返回成功释放的条数。
func (s *ReservationSweeper) SweepOnce(ctx context.Context) int {
	ctx, span := s.tracer.Start(ctx, "sweeper.Sweep")
	defer span.End()

	expired, err := s.registry.ExpiredBefore(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to list expired reservations")
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	span.SetAttributes(attribute.Int("reservations.expired", len(expired)))
	released := 0
	for _, res := range expired {
		if _, err := s.stockSvc.Release(ctx, res.Handle); err != nil {
			// 已被并发释放的句柄在这里表现为 not found，安全跳过
			if errors.Is(err, domain.ErrReservationNotFound) {
				continue
			}
			logger.Ctx(ctx).Warn().Err(err).
				Str("handle", res.Handle).
				Str("productCode", res.ProductCode).
				Msg("failed to sweep stale reservation, will retry next cycle")
			continue
		}
		released++
		logger.Ctx(ctx).Info().
			Str("handle", res.Handle).
			Str("productCode", res.ProductCode).
			Int("quantity", res.Quantity).
			Msg("stale reservation swept")
	}
	return released
}
