// cmd/inventory-service/main.go
package main

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"

	"vertex/internal/pkg/bootstrap"
	"vertex/internal/pkg/redis"
	"vertex/internal/service/inventory/application"
	"vertex/internal/service/inventory/domain"
	"vertex/internal/service/inventory/infrastructure"
	"vertex/internal/service/inventory/interfaces"
)

const serviceName = "inventory-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	db, err := infrastructure.NewMysqlDB(cfg.Infra.Mysql.DSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	repo := infrastructure.NewGormStockRepository(db)

	redisClient, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	registry, err := infrastructure.NewRedisRegistry(redisClient)
	if err != nil {
		log.Fatalf("failed to init reservation registry: %v", err)
	}

	tracer := otel.Tracer(serviceName)
	stockSvc := domain.NewStockService(repo, registry)
	appSvc := application.NewInventoryApplicationService(stockSvc, repo, tracer)
	handler := interfaces.NewInventoryHandler(appSvc)

	sweeper := application.NewReservationSweeper(
		registry,
		stockSvc,
		time.Duration(cfg.App.ReservationTTLSeconds)*time.Second,
		time.Duration(cfg.App.SweepIntervalSeconds)*time.Second,
		tracer,
	)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
		Workers: []func(ctx context.Context) error{
			sweeper.Run,
		},
	})
}
