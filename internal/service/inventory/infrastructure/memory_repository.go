// internal/service/inventory/infrastructure/memory_repository.go
package infrastructure

import (
	"context"
	"sync"

	"vertex/internal/service/inventory/domain"
)

// MemoryStockRepository 是 domain.StockRepository 的进程内实现，
// 用于测试和本地开发。互斥锁的粒度是单个商品行：
// 不同商品上的 Mutate 完全并行，同一商品上的 Mutate 彼此串行，
// 与 MySQL 实现的行锁语义等价。
type MemoryStockRepository struct {
	mu     sync.RWMutex
	items  map[string]*domain.StockItem
	locks  map[string]*sync.Mutex
	nextID uint64
}

func NewMemoryStockRepository() *MemoryStockRepository {
	return &MemoryStockRepository{
		items: make(map[string]*domain.StockItem),
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *MemoryStockRepository) FindByCode(ctx context.Context, productCode string) (*domain.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[productCode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *MemoryStockRepository) Save(ctx context.Context, item *domain.StockItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ProductCode]
	if !ok {
		r.nextID++
		item.ID = r.nextID
		item.Version = 1
		copied := *item
		r.items[item.ProductCode] = &copied
		r.locks[item.ProductCode] = &sync.Mutex{}
		return nil
	}

	if existing.Version != item.Version {
		return domain.ErrConflict
	}
	item.Version++
	copied := *item
	r.items[item.ProductCode] = &copied
	return nil
}

func (r *MemoryStockRepository) Mutate(ctx context.Context, productCode string, fn func(item *domain.StockItem) error) (*domain.StockItem, error) {
	r.mu.RLock()
	rowLock, ok := r.locks[productCode]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}

	// 行级互斥：同一商品的变更串行执行
	rowLock.Lock()
	defer rowLock.Unlock()

	r.mu.RLock()
	item := r.items[productCode]
	r.mu.RUnlock()
	if item == nil {
		return nil, domain.ErrNotFound
	}

	working := *item
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.Version = item.Version + 1

	r.mu.Lock()
	// 版本校验对应 MySQL 实现里的 WHERE version = ?：
	// Save 不走行锁，管理侧写入插队时这里放弃提交
	current := r.items[productCode]
	if current == nil || current.Version != item.Version {
		r.mu.Unlock()
		return nil, domain.ErrConflict
	}
	copied := working
	r.items[productCode] = &copied
	r.mu.Unlock()

	result := working
	return &result, nil
}
