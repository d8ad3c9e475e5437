// internal/service/inventory/infrastructure/memory_registry_test.go
package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/service/inventory/domain"
)

func TestConcurrentClaimHasSingleWinner(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	handle := domain.NewHandle()
	require.NoError(t, registry.Insert(ctx, domain.Reservation{
		Handle:      handle,
		ProductCode: "P100",
		Quantity:    3,
		CreatedAt:   time.Now(),
	}))

	const claimers = 16
	var wg sync.WaitGroup
	winners := make(chan *domain.Reservation, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, err := registry.Claim(ctx, handle); err == nil {
				winners <- res
			}
		}()
	}
	wg.Wait()
	close(winners)

	var claimed []*domain.Reservation
	for res := range winners {
		claimed = append(claimed, res)
	}
	require.Len(t, claimed, 1)
	assert.Equal(t, 3, claimed[0].Quantity)

	_, err := registry.Get(ctx, handle)
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
}

func TestExpiredBeforeFiltersByCreationTime(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, registry.Insert(ctx, domain.Reservation{
		Handle: "old", ProductCode: "P100", Quantity: 1, CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, registry.Insert(ctx, domain.Reservation{
		Handle: "fresh", ProductCode: "P100", Quantity: 1, CreatedAt: now,
	}))

	expired, err := registry.ExpiredBefore(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].Handle)
}
