// internal/service/inventory/domain/stock_test.go
package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/service/inventory/domain"
)

func TestNewStockItemValidation(t *testing.T) {
	_, err := domain.NewStockItem("", "Widget", 1, "")
	assert.Error(t, err)

	_, err = domain.NewStockItem("P100", "Widget", -1, "")
	assert.Error(t, err)

	item, err := domain.NewStockItem("P100", "Widget", 0, "zero is fine")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}

func TestReduceStockFloor(t *testing.T) {
	item, err := domain.NewStockItem("P100", "Widget", 5, "")
	require.NoError(t, err)

	require.NoError(t, item.ReduceStock(5))
	assert.Equal(t, 0, item.Quantity)

	err = item.ReduceStock(1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, item.Quantity)
}

func TestOverwriteSkipsFloorCheck(t *testing.T) {
	item, err := domain.NewStockItem("P100", "Widget", 5, "")
	require.NoError(t, err)

	require.NoError(t, item.Overwrite("Widget v2", 0, "sold out"))
	assert.Equal(t, 0, item.Quantity)
	assert.Equal(t, "Widget v2", item.ProductName)

	assert.Error(t, item.Overwrite("Widget v2", -1, ""))
}
