// cmd/payment-service/main.go
package main

import (
	"log"

	"go.opentelemetry.io/otel"

	"vertex/internal/pkg/bootstrap"
	"vertex/internal/pkg/httpclient"
	"vertex/internal/pkg/mq"
	"vertex/internal/service/payment/application"
	"vertex/internal/service/payment/infrastructure"
	"vertex/internal/service/payment/infrastructure/adapter"
	"vertex/internal/service/payment/interfaces"
)

const serviceName = "payment-service"

// main 函数是应用的"组装根" (Composition Root)
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	db, err := infrastructure.NewMysqlDB(cfg.Infra.Mysql.DSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	repo := infrastructure.NewGormPaymentRepository(db)

	tracer := otel.Tracer(serviceName)

	stockGateway := adapter.NewInventoryHTTPAdapter(
		httpclient.NewClient(tracer),
		cfg.Services.InventoryBaseURL,
	)
	cardGateway := adapter.NewSimulatedCardGateway()

	kafkaWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
	defer kafkaWriter.Close()
	publisher := adapter.NewKafkaEventPublisher(kafkaWriter)

	appSvc := application.NewPaymentApplicationService(repo, stockGateway, cardGateway, publisher, tracer)
	handler := interfaces.NewPaymentHandler(appSvc)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
