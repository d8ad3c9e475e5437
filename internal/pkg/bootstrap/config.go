// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"vertex/internal/pkg/logger"
)

// Config 是所有服务共享的配置结构。
// 通过 CONFIG_PATH 指定的 yaml 文件加载，个别字段允许环境变量覆盖。
type Config struct {
	App struct {
		// ReservationTTLSeconds 控制预占库存的过期回收时间。
		ReservationTTLSeconds int `yaml:"reservationTTLSeconds"`
		// SweepIntervalSeconds 是过期预占扫描的周期。
		SweepIntervalSeconds int `yaml:"sweepIntervalSeconds"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
			Topic   string   `yaml:"topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
	} `yaml:"infra"`

	Services struct {
		// InventoryBaseURL 是支付服务调用库存服务的地址。
		InventoryBaseURL string `yaml:"inventoryBaseUrl"`
	} `yaml:"services"`
}

var (
	currentConfig Config
	configOnce    sync.Once
)

// Init 加载全局配置。必须在 StartService 之前调用。
func Init() {
	configOnce.Do(func() {
		cfg, err := loadConfig(getEnv("CONFIG_PATH", "config/config.yaml"))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("config file not loaded, falling back to defaults")
			cfg = defaultConfig()
		}
		applyEnvOverrides(cfg)
		currentConfig = *cfg
	})
}

// GetCurrentConfig 返回当前生效的配置快照。
func GetCurrentConfig() Config {
	return currentConfig
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.ReservationTTLSeconds = 900
	cfg.App.SweepIntervalSeconds = 60
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/vertex?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.Topic = "payment-events"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Services.InventoryBaseURL = "http://localhost:8082"
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Services.InventoryBaseURL = getEnv("INVENTORY_BASE_URL", cfg.Services.InventoryBaseURL)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
