// internal/service/inventory/infrastructure/memory_repository_test.go
package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/service/inventory/domain"
)

func TestMutateAbortsWhenSaveInterleaves(t *testing.T) {
	repo := NewMemoryStockRepository()
	ctx := context.Background()

	item, err := domain.NewStockItem("P100", "Widget", 10, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	// Save 不经过行锁，可以在 Mutate 的读与写之间插队；
	// 插队之后 Mutate 的提交必须放弃，而不是悄悄覆盖管理侧的写入。
	_, err = repo.Mutate(ctx, "P100", func(row *domain.StockItem) error {
		admin, findErr := repo.FindByCode(ctx, "P100")
		require.NoError(t, findErr)
		require.NoError(t, admin.Overwrite("Widget", 3, "admin correction"))
		return repo.Save(ctx, admin)
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity, "the interleaved admin write wins")
	assert.Equal(t, int64(2), stored.Version)
}

func TestMutateCommitsVersionedWrite(t *testing.T) {
	repo := NewMemoryStockRepository()
	ctx := context.Background()

	item, err := domain.NewStockItem("P100", "Widget", 10, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	updated, err := repo.Mutate(ctx, "P100", func(row *domain.StockItem) error {
		return row.ReduceStock(4)
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)
	assert.Equal(t, int64(2), updated.Version)
}
