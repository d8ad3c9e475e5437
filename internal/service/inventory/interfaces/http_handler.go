// internal/service/inventory/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"vertex/internal/pkg/identity"
	"vertex/internal/pkg/logger"
	"vertex/internal/service/inventory/application"
	"vertex/internal/service/inventory/domain"
)

// InventoryHandler 封装了 inventory 服务的 HTTP 处理器
type InventoryHandler struct {
	service *application.InventoryApplicationService
}

// NewInventoryHandler 创建一个新的 HTTP 处理器实例
func NewInventoryHandler(service *application.InventoryApplicationService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/inventory", h.upsertHandler)
	mux.HandleFunc("/api/inventory/item", h.getHandler)
	mux.HandleFunc("/api/inventory/validate", h.validateHandler)
	mux.HandleFunc("/api/inventory/unlock", h.unlockHandler)
}

// extractCtx 重建链路上下文并透传调用方身份令牌。
// 令牌不在这里解释，原样交给自己的鉴权层（超出本服务职责）。
func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	if token := r.Header.Get("Authorization"); token != "" {
		ctx = identity.WithToken(ctx, token)
	}
	return r.WithContext(ctx)
}

func (h *InventoryHandler) upsertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = extractCtx(r)

	var req application.StockItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductCode == "" {
		http.Error(w, "productCode is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 {
		http.Error(w, "quantity cannot be negative", http.StatusBadRequest)
		return
	}

	resp, err := h.service.AddOrUpdateStock(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *InventoryHandler) getHandler(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	productCode := r.URL.Query().Get("productCode")
	if productCode == "" {
		http.Error(w, "productCode is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetByProductCode(r.Context(), productCode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func (h *InventoryHandler) validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = extractCtx(r)

	var req application.StockValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductCode == "" || req.Quantity <= 0 {
		http.Error(w, "productCode and positive quantity are required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ValidateStock(r.Context(), &req)
	if err != nil {
		reservationOutcomes.WithLabelValues("error").Inc()
		writeDomainError(w, r, err)
		return
	}

	switch {
	case resp.Locked:
		reservationOutcomes.WithLabelValues("reserved").Inc()
	case resp.InStock:
		reservationOutcomes.WithLabelValues("conflict").Inc()
	default:
		reservationOutcomes.WithLabelValues("insufficient_stock").Inc()
	}
	writeJSON(w, resp)
}

func (h *InventoryHandler) unlockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = extractCtx(r)

	var req application.StockReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.LockReferenceID == "" {
		http.Error(w, "lockReferenceId is required", http.StatusBadRequest)
		return
	}

	released, err := h.service.ReleaseStock(r.Context(), req.LockReferenceID)
	if err != nil {
		releaseOutcomes.WithLabelValues("retryable_failure").Inc()
		writeDomainError(w, r, err)
		return
	}
	if released {
		releaseOutcomes.WithLabelValues("released").Inc()
	} else {
		releaseOutcomes.WithLabelValues("not_found").Inc()
	}
	writeJSON(w, released)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeDomainError 把领域错误映射为 HTTP 状态码。
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "stock item not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, "stock row conflict, try again", http.StatusConflict)
	case errors.Is(err, domain.ErrReleaseRetryable):
		http.Error(w, "release failed, reservation kept for retry", http.StatusServiceUnavailable)
	default:
		logger.Ctx(r.Context()).Error().Err(err).Msg("unexpected error in inventory handler")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
