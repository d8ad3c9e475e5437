// internal/service/payment/infrastructure/adapter/inventory_http_adapter_test.go
package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"vertex/internal/pkg/httpclient"
	"vertex/internal/service/payment/domain"
)

func newAdapter(baseURL string) *InventoryHTTPAdapter {
	return NewInventoryHTTPAdapter(httpclient.NewClient(otel.Tracer("test")), baseURL)
}

func TestReserveDecodesValidationResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/inventory/validate", r.URL.Path)

		var req stockValidationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "P100", req.ProductCode)
		assert.Equal(t, 4, req.Quantity)

		json.NewEncoder(w).Encode(stockValidationResponse{
			ProductCode:       "P100",
			InStock:           true,
			Locked:            true,
			LockReferenceID:   "lock-1",
			RequestedQuantity: 4,
			AvailableQuantity: 10,
		})
	}))
	defer server.Close()

	decision, err := newAdapter(server.URL).Reserve(context.Background(), "P100", 4)
	require.NoError(t, err)
	assert.True(t, decision.InStock)
	assert.True(t, decision.Locked)
	assert.Equal(t, "lock-1", decision.Handle)
	assert.Equal(t, 10, decision.AvailableQuantity)
}

func TestReleaseDecodesBoolBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/inventory/unlock", r.URL.Path)

		var req stockReleaseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lock-1", req.LockReferenceID)

		json.NewEncoder(w).Encode(true)
	}))
	defer server.Close()

	released, err := newAdapter(server.URL).Release(context.Background(), "lock-1")
	require.NoError(t, err)
	assert.True(t, released)
}

func TestReserveMapsTransportFailureToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关掉，让连接被拒绝

	_, err := newAdapter(server.URL).Reserve(context.Background(), "P100", 4)
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestReserveMapsServerErrorToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newAdapter(server.URL).Reserve(context.Background(), "P100", 4)
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestBreakerShortCircuitsAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter := newAdapter(server.URL)
	for i := 0; i < 8; i++ {
		_, err := adapter.Reserve(context.Background(), "P100", 4)
		assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
	}

	// 连续失败 5 次后断路器打开，后续请求不再打到服务端
	assert.Equal(t, 5, calls)
}
