// internal/service/payment/application/dto.go
package application

// PaymentRequest 是受理支付的入参。
type PaymentRequest struct {
	OrderID     string  `json:"orderId"`
	ProductCode string  `json:"productCode"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
	Mode        string  `json:"paymentMode"`
}

// PaymentResponse 是对外返回的支付视图。
type PaymentResponse struct {
	TransactionID    string  `json:"transactionId"`
	OrderID          string  `json:"orderId"`
	ProductCode      string  `json:"productCode"`
	Quantity         int     `json:"quantity"`
	Amount           float64 `json:"amount"`
	Mode             string  `json:"paymentMode"`
	Status           string  `json:"paymentStatus"`
	FailureReason    string  `json:"failureReason,omitempty"`
	StockReferenceID string  `json:"stockReferenceId,omitempty"`
	Timestamp        int64   `json:"timestamp"`
}
