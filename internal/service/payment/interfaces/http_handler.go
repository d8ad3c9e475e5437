// internal/service/payment/interfaces/http_handler.go
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
	"vertex/internal/service/payment/application"
	"vertex/internal/service/payment/domain"
)

// PaymentHandler 封装了 payment 服务的 HTTP 处理器
type PaymentHandler struct {
	service *application.PaymentApplicationService
}

func NewPaymentHandler(service *application.PaymentApplicationService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/payments", h.processHandler)
	mux.HandleFunc("/api/payments/item", h.getHandler)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	if token := r.Header.Get("Authorization"); token != "" {
		ctx = identity.WithToken(ctx, token)
	}
	return r.WithContext(ctx)
}

func (h *PaymentHandler) processHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r = extractCtx(r)

	var req application.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ProcessPayment(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	paymentOutcomes.WithLabelValues(resp.Status).Inc()
	writeJSON(w, resp)
}

func (h *PaymentHandler) getHandler(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	transactionID := r.URL.Query().Get("transactionId")
	if transactionID == "" {
		http.Error(w, "transactionId is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetPaymentByTransactionID(r.Context(), transactionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		http.Error(w, "payment not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidPayment):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Ctx(r.Context()).Error().Err(err).Msg("unexpected error in payment handler")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
