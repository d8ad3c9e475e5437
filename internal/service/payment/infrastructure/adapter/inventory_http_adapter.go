// internal/service/payment/infrastructure/adapter/inventory_http_adapter.go
package adapter

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"vertex/internal/pkg/httpclient"
	"vertex/internal/pkg/logger"
	"vertex/internal/service/payment/domain"
	"vertex/internal/service/payment/domain/port"
)

const callTimeout = 3 * time.Second

// InventoryHTTPAdapter 通过 HTTP 调用库存服务，并用断路器保护调用方。
// 断路器打开或传输层失败统一折算成 ErrCollaboratorUnavailable，
// 让上层 saga 走降级受理分支。
type InventoryHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

var _ port.StockGateway = (*InventoryHTTPAdapter)(nil)

func NewInventoryHTTPAdapter(client *httpclient.Client, baseURL string) *InventoryHTTPAdapter {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "inventory-service",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return &InventoryHTTPAdapter{client: client, baseURL: baseURL, breaker: breaker}
}

type stockValidationRequest struct {
	ProductCode string `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

type stockValidationResponse struct {
	ProductCode       string `json:"productCode"`
	InStock           bool   `json:"inStock"`
	Locked            bool   `json:"locked"`
	LockReferenceID   string `json:"lockReferenceId"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

type stockReleaseRequest struct {
	LockReferenceID string `json:"lockReferenceId"`
}

func (a *InventoryHTTPAdapter) Reserve(ctx context.Context, productCode string, quantity int) (*port.StockDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	result, err := a.breaker.Execute(func() (interface{}, error) {
		var resp stockValidationResponse
		err := a.client.PostJSON(ctx, a.baseURL+"/api/inventory/validate",
			&stockValidationRequest{ProductCode: productCode, Quantity: quantity}, &resp)
		if err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		return nil, a.unavailable(ctx, err, "reserve")
	}

	resp := result.(*stockValidationResponse)
	return &port.StockDecision{
		ProductCode:       resp.ProductCode,
		InStock:           resp.InStock,
		Locked:            resp.Locked,
		Handle:            resp.LockReferenceID,
		RequestedQuantity: resp.RequestedQuantity,
		AvailableQuantity: resp.AvailableQuantity,
	}, nil
}

func (a *InventoryHTTPAdapter) Release(ctx context.Context, handle string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	result, err := a.breaker.Execute(func() (interface{}, error) {
		var released bool
		err := a.client.PostJSON(ctx, a.baseURL+"/api/inventory/unlock",
			&stockReleaseRequest{LockReferenceID: handle}, &released)
		if err != nil {
			return nil, err
		}
		return released, nil
	})
	if err != nil {
		return false, a.unavailable(ctx, err, "release")
	}
	return result.(bool), nil
}

func (a *InventoryHTTPAdapter) unavailable(ctx context.Context, err error, op string) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logger.Ctx(ctx).Warn().Str("op", op).Msg("inventory call short-circuited by breaker")
	} else {
		logger.Ctx(ctx).Warn().Str("op", op).Err(err).Msg("inventory call failed")
	}
	return errors.Wrapf(domain.ErrCollaboratorUnavailable, "inventory %s: %v", op, err)
}
