// internal/service/inventory/domain/service_test.go
package domain_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/service/inventory/domain"
	"vertex/internal/service/inventory/infrastructure"
)

func newStockService(t *testing.T, productCode string, quantity int) (*domain.StockService, *infrastructure.MemoryStockRepository, *infrastructure.MemoryRegistry) {
	t.Helper()
	repo := infrastructure.NewMemoryStockRepository()
	registry := infrastructure.NewMemoryRegistry()

	item, err := domain.NewStockItem(productCode, "Widget", quantity, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), item))

	return domain.NewStockService(repo, registry), repo, registry
}

func TestReserveReducesLedger(t *testing.T) {
	svc, repo, registry := newStockService(t, "P100", 10)
	ctx := context.Background()

	handle := domain.NewHandle()
	item, err := svc.Reserve(ctx, "P100", 4, handle)
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity)

	res, err := registry.Get(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, "P100", res.ProductCode)
	assert.Equal(t, 4, res.Quantity)
}

func TestReserveInsufficientStockLeavesLedgerUntouched(t *testing.T) {
	svc, repo, registry := newStockService(t, "P100", 3)
	ctx := context.Background()

	handle := domain.NewHandle()
	_, err := svc.Reserve(ctx, "P100", 5, handle)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
	assert.Equal(t, int64(1), stored.Version, "failed reserve must not bump the version")

	_, err = registry.Get(ctx, handle)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
}

func TestReserveUnknownProduct(t *testing.T) {
	svc, _, _ := newStockService(t, "P100", 3)

	_, err := svc.Reserve(context.Background(), "NOPE", 1, domain.NewHandle())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReleaseRestoresReservedQuantity(t *testing.T) {
	svc, repo, _ := newStockService(t, "P100", 10)
	ctx := context.Background()

	handle := domain.NewHandle()
	_, err := svc.Reserve(ctx, "P100", 4, handle)
	require.NoError(t, err)

	item, err := svc.Release(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)
	// 预占 + 释放各提交一次变更
	assert.Equal(t, int64(3), stored.Version)
}

func TestDoubleReleaseIsIdempotent(t *testing.T) {
	svc, repo, _ := newStockService(t, "P100", 10)
	ctx := context.Background()

	handle := domain.NewHandle()
	_, err := svc.Reserve(ctx, "P100", 4, handle)
	require.NoError(t, err)

	_, err = svc.Release(ctx, handle)
	require.NoError(t, err)

	_, err = svc.Release(ctx, handle)
	require.ErrorIs(t, err, domain.ErrReservationNotFound)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity, "second release must not double-increment")
}

func TestZeroQuantityReleaseStillBumpsVersion(t *testing.T) {
	svc, repo, _ := newStockService(t, "P100", 10)
	ctx := context.Background()

	handle := domain.NewHandle()
	_, err := svc.Reserve(ctx, "P100", 0, handle)
	require.NoError(t, err)

	_, err = svc.Release(ctx, handle)
	require.NoError(t, err)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)
	assert.Equal(t, int64(3), stored.Version, "zero-quantity release still commits a versioned write")
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	svc, repo, _ := newStockService(t, "P100", 10)
	ctx := context.Background()

	// 两个请求加起来超过可用量，只允许一个成功
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Reserve(ctx, "P100", 6, domain.NewHandle())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, successes)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Quantity)
}

func TestConcurrentReservesExactFitBothSucceed(t *testing.T) {
	svc, repo, _ := newStockService(t, "P100", 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 2)
	quantities := []int{6, 4}
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Reserve(ctx, "P100", quantities[i], domain.NewHandle())
		}(i)
	}
	wg.Wait()

	require.NoError(t, results[0])
	require.NoError(t, results[1])

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity)
}

// failingRegistry 在 Insert 时报错，模拟注册表不可用。
type failingRegistry struct {
	*infrastructure.MemoryRegistry
	failInsert bool
}

func (f *failingRegistry) Insert(ctx context.Context, res domain.Reservation) error {
	if f.failInsert {
		return errors.New("registry down")
	}
	return f.MemoryRegistry.Insert(ctx, res)
}

func TestReserveRollsBackWhenRegistryInsertFails(t *testing.T) {
	repo := infrastructure.NewMemoryStockRepository()
	registry := &failingRegistry{MemoryRegistry: infrastructure.NewMemoryRegistry(), failInsert: true}
	ctx := context.Background()

	item, err := domain.NewStockItem("P100", "Widget", 10, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	svc := domain.NewStockService(repo, registry)
	_, err = svc.Reserve(ctx, "P100", 4, domain.NewHandle())
	require.Error(t, err)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity, "a decrement without a registry entry must be compensated")
}

// failingRepo 在指定次数的 Mutate 之后开始报错。
type failingRepo struct {
	domain.StockRepository
	allowed int
	mu      sync.Mutex
}

func (f *failingRepo) Mutate(ctx context.Context, productCode string, fn func(item *domain.StockItem) error) (*domain.StockItem, error) {
	f.mu.Lock()
	if f.allowed <= 0 {
		f.mu.Unlock()
		return nil, errors.New("storage down")
	}
	f.allowed--
	f.mu.Unlock()
	return f.StockRepository.Mutate(ctx, productCode, fn)
}

func TestReleaseFailureReinstatesReservation(t *testing.T) {
	inner := infrastructure.NewMemoryStockRepository()
	registry := infrastructure.NewMemoryRegistry()
	ctx := context.Background()

	item, err := domain.NewStockItem("P100", "Widget", 10, "")
	require.NoError(t, err)
	require.NoError(t, inner.Save(ctx, item))

	// 预留一次 Mutate 给 Reserve，Release 里的回补会失败
	repo := &failingRepo{StockRepository: inner, allowed: 1}
	svc := domain.NewStockService(repo, registry)

	handle := domain.NewHandle()
	_, err = svc.Reserve(ctx, "P100", 4, handle)
	require.NoError(t, err)

	_, err = svc.Release(ctx, handle)
	require.ErrorIs(t, err, domain.ErrReleaseRetryable)

	// 条目被恢复，下一次释放仍然可以发现它
	res, err := registry.Get(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Quantity)
}
