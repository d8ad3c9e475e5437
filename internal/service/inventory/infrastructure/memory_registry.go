// internal/service/inventory/infrastructure/memory_registry.go
package infrastructure

import (
	"context"
	"sync"
	"time"

	"vertex/internal/service/inventory/domain"
)

// MemoryRegistry 是进程内的预占注册表。
// 一把互斥锁保证同一句柄上 Insert / Claim / Get 的线性化：
// 并发的两次 Claim 只会有一个赢家。
//
// 注意这是一个单点：进程崩溃时未释放的预占会丢失。
// 生产部署应使用 RedisRegistry。
type MemoryRegistry struct {
	mu           sync.Mutex
	reservations map[string]domain.Reservation
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		reservations: make(map[string]domain.Reservation),
	}
}

func (r *MemoryRegistry) Insert(ctx context.Context, res domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[res.Handle] = res
	return nil
}

func (r *MemoryRegistry) Claim(ctx context.Context, handle string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[handle]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	delete(r.reservations, handle)
	return &res, nil
}

func (r *MemoryRegistry) Get(ctx context.Context, handle string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[handle]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &res, nil
}

func (r *MemoryRegistry) ExpiredBefore(ctx context.Context, t time.Time) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []domain.Reservation
	for _, res := range r.reservations {
		if res.CreatedAt.Before(t) {
			expired = append(expired, res)
		}
	}
	return expired, nil
}
