// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger 是全局的 zerolog 实例。
// 所有服务通过 Init 统一初始化，保证日志格式一致。
var Logger zerolog.Logger

func init() {
	// 在 Init 被调用之前提供一个可用的缺省 logger，
	// 避免在 bootstrap 早期阶段丢日志。
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init 根据服务名初始化全局 logger。
// 日志级别通过 LOG_LEVEL 环境变量控制，默认 info。
func Init(serviceName string) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	Logger = zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Ctx 返回一个附带链路信息的 logger。
// 如果 ctx 中存在有效的 Span，会自动带上 trace_id / span_id，
// 便于在日志系统中与 Jaeger 链路互相跳转。
func Ctx(ctx context.Context) *zerolog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return &Logger
	}

	l := Logger.With().
		Str("trace_id", spanCtx.TraceID().String()).
		Str("span_id", spanCtx.SpanID().String()).
		Logger()
	return &l
}
