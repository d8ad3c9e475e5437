// internal/service/inventory/application/sweeper_test.go
package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"vertex/internal/service/inventory/application"
	"vertex/internal/service/inventory/domain"
	"vertex/internal/service/inventory/infrastructure"
)

func TestSweepOnceReclaimsOnlyExpired(t *testing.T) {
	repo := infrastructure.NewMemoryStockRepository()
	registry := infrastructure.NewMemoryRegistry()
	ctx := context.Background()

	item, err := domain.NewStockItem("P100", "Widget", 10, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, item))

	stockSvc := domain.NewStockService(repo, registry)

	// 两条预占：一条已过期，一条仍在 TTL 内
	staleHandle := domain.NewHandle()
	_, err = stockSvc.Reserve(ctx, "P100", 4, staleHandle)
	require.NoError(t, err)
	freshHandle := domain.NewHandle()
	_, err = stockSvc.Reserve(ctx, "P100", 2, freshHandle)
	require.NoError(t, err)

	// 把第一条的创建时间拨回到 TTL 之外
	stale, err := registry.Claim(ctx, staleHandle)
	require.NoError(t, err)
	stale.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, registry.Insert(ctx, *stale))

	sweeper := application.NewReservationSweeper(registry, stockSvc, 15*time.Minute, time.Minute, otel.Tracer("test"))
	released := sweeper.SweepOnce(ctx)
	assert.Equal(t, 1, released)

	stored, err := repo.FindByCode(ctx, "P100")
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Quantity, "only the stale reservation is returned to the ledger")

	_, err = registry.Get(ctx, staleHandle)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	_, err = registry.Get(ctx, freshHandle)
	assert.NoError(t, err, "fresh reservation survives the sweep")
}

func TestSweepOnceEmptyRegistry(t *testing.T) {
	repo := infrastructure.NewMemoryStockRepository()
	registry := infrastructure.NewMemoryRegistry()
	stockSvc := domain.NewStockService(repo, registry)

	sweeper := application.NewReservationSweeper(registry, stockSvc, 15*time.Minute, time.Minute, otel.Tracer("test"))
	assert.Equal(t, 0, sweeper.SweepOnce(context.Background()))
}
