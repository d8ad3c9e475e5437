// internal/service/payment/infrastructure/adapter/event_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"vertex/internal/pkg/mq"
	"vertex/internal/service/payment/domain"
	"vertex/internal/service/payment/domain/port"
)

// KafkaEventPublisher 把支付完成事件写入 kafka。
// 以订单 ID 为 key，同一订单的事件保证分区内有序。
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

var _ port.PaymentEventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(writer *kafka.Writer) *KafkaEventPublisher {
	return &KafkaEventPublisher{writer: writer}
}

// paymentCompletedEvent 是对外事件契约，与内部领域模型解耦。
type paymentCompletedEvent struct {
	TransactionID    string  `json:"transactionId"`
	OrderID          string  `json:"orderId"`
	ProductCode      string  `json:"productCode"`
	Quantity         int     `json:"quantity"`
	Amount           float64 `json:"amount"`
	Mode             string  `json:"paymentMode"`
	Status           string  `json:"paymentStatus"`
	StockReferenceID string  `json:"stockReferenceId,omitempty"`
	SettledAt        int64   `json:"settledAt"`
}

func (p *KafkaEventPublisher) PaymentCompleted(ctx context.Context, record *domain.PaymentRecord) error {
	event := paymentCompletedEvent{
		TransactionID:    record.TransactionID,
		OrderID:          record.OrderID,
		ProductCode:      record.ProductCode,
		Quantity:         record.Quantity,
		Amount:           record.Amount,
		Mode:             string(record.Mode),
		Status:           string(record.Status),
		StockReferenceID: record.StockReferenceID,
		SettledAt:        record.Timestamp.UnixMilli(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal payment event")
	}
	return mq.ProduceMessage(ctx, p.writer, []byte(record.OrderID), payload)
}
