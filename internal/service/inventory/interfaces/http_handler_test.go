// internal/service/inventory/interfaces/http_handler_test.go
package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"vertex/internal/service/inventory/application"
	"vertex/internal/service/inventory/domain"
	"vertex/internal/service/inventory/infrastructure"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := infrastructure.NewMemoryStockRepository()
	registry := infrastructure.NewMemoryRegistry()
	appSvc := application.NewInventoryApplicationService(
		domain.NewStockService(repo, registry),
		repo,
		otel.Tracer("test"),
	)

	mux := http.NewServeMux()
	NewInventoryHandler(appSvc).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestInventoryEndToEnd(t *testing.T) {
	server := newTestServer(t)

	// 登记库存
	resp := postJSON(t, server.URL+"/api/inventory", application.StockItemRequest{
		ProductCode: "P100", ProductName: "Widget", Quantity: 10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 校验并锁定
	resp = postJSON(t, server.URL+"/api/inventory/validate", application.StockValidationRequest{
		ProductCode: "P100", Quantity: 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var validation application.StockValidationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&validation))
	assert.True(t, validation.InStock)
	assert.True(t, validation.Locked)
	require.NotEmpty(t, validation.LockReferenceID)

	// 台账已扣减
	getResp, err := http.Get(server.URL + "/api/inventory/item?productCode=P100")
	require.NoError(t, err)
	defer getResp.Body.Close()
	var item application.StockItemResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&item))
	assert.Equal(t, 6, item.Quantity)

	// 释放
	resp = postJSON(t, server.URL+"/api/inventory/unlock", application.StockReleaseRequest{
		LockReferenceID: validation.LockReferenceID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var released bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&released))
	assert.True(t, released)

	// 重复释放是安全的空操作
	resp = postJSON(t, server.URL+"/api/inventory/unlock", application.StockReleaseRequest{
		LockReferenceID: validation.LockReferenceID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&released))
	assert.False(t, released)
}

func TestValidateUnknownProductReturnsOutOfStock(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/inventory/validate", application.StockValidationRequest{
		ProductCode: "NOPE", Quantity: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var validation application.StockValidationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&validation))
	assert.False(t, validation.InStock)
	assert.False(t, validation.Locked)
	assert.Equal(t, 0, validation.AvailableQuantity)
}

func TestGetUnknownProductReturns404(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/inventory/item?productCode=NOPE")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidateRejectsBadInput(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/inventory/validate", application.StockValidationRequest{
		ProductCode: "P100", Quantity: 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
