// internal/service/inventory/infrastructure/redis_registry.go
package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"vertex/internal/pkg/redis"
	"vertex/internal/service/inventory/domain"
)

const (
	claimScriptName = "claim_reservation"

	reservationKeyPrefix = "reservation:"
	reservationIndexKey  = "reservations:index"
)

// RedisRegistry 是预占注册表的 Redis 实现。
// 每条预占是一个 hash，外加一个按创建时间排序的索引 zset 供过期扫描。
// Claim 的"读取+删除"通过 Lua 脚本原子完成，
// 保证并发释放同一句柄时只有一个调用方能认领成功。
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry 创建注册表实例并加载认领脚本。
func NewRedisRegistry(client *redis.Client) (*RedisRegistry, error) {
	if err := client.LoadScriptFromContent(claimScriptName, claimScript); err != nil {
		return nil, fmt.Errorf("failed to load claim script: %w", err)
	}
	return &RedisRegistry{client: client}, nil
}

func reservationKey(handle string) string {
	return reservationKeyPrefix + handle
}

func (r *RedisRegistry) Insert(ctx context.Context, res domain.Reservation) error {
	pipe := r.client.GetClient().TxPipeline()
	pipe.HSet(ctx, reservationKey(res.Handle),
		"productCode", res.ProductCode,
		"quantity", res.Quantity,
		"createdAt", res.CreatedAt.UnixNano(),
	)
	pipe.ZAdd(ctx, reservationIndexKey, goredis.Z{
		Score:  float64(res.CreatedAt.UnixNano()),
		Member: res.Handle,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Claim(ctx context.Context, handle string) (*domain.Reservation, error) {
	result, err := r.client.RunScript(ctx, claimScriptName,
		[]string{reservationKey(handle), reservationIndexKey}, handle)
	if err != nil {
		return nil, fmt.Errorf("claim script failed: %w", err)
	}

	fields, ok := result.([]interface{})
	if !ok || len(fields) == 0 {
		return nil, domain.ErrReservationNotFound
	}
	return parseReservation(handle, fields)
}

func (r *RedisRegistry) Get(ctx context.Context, handle string) (*domain.Reservation, error) {
	values, err := r.client.GetClient().HGetAll(ctx, reservationKey(handle)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, domain.ErrReservationNotFound
	}
	quantity, _ := strconv.Atoi(values["quantity"])
	createdAt, _ := strconv.ParseInt(values["createdAt"], 10, 64)
	return &domain.Reservation{
		Handle:      handle,
		ProductCode: values["productCode"],
		Quantity:    quantity,
		CreatedAt:   time.Unix(0, createdAt),
	}, nil
}

func (r *RedisRegistry) ExpiredBefore(ctx context.Context, t time.Time) ([]domain.Reservation, error) {
	handles, err := r.client.GetClient().ZRangeByScore(ctx, reservationIndexKey, &goredis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(t.UnixNano(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	var expired []domain.Reservation
	for _, handle := range handles {
		res, err := r.Get(ctx, handle)
		if err != nil {
			// 已被并发释放，索引里的残留由下一次 Claim 清理
			continue
		}
		expired = append(expired, *res)
	}
	return expired, nil
}

// parseReservation 解析 Lua 脚本返回的 [field, value, ...] 平铺数组。
func parseReservation(handle string, fields []interface{}) (*domain.Reservation, error) {
	res := &domain.Reservation{Handle: handle}
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		value, _ := fields[i+1].(string)
		switch key {
		case "productCode":
			res.ProductCode = value
		case "quantity":
			quantity, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("bad quantity in reservation %s: %w", handle, err)
			}
			res.Quantity = quantity
		case "createdAt":
			nanos, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad createdAt in reservation %s: %w", handle, err)
			}
			res.CreatedAt = time.Unix(0, nanos)
		}
	}
	if res.ProductCode == "" {
		return nil, fmt.Errorf("reservation %s missing product code", handle)
	}
	return res, nil
}

var claimScript = `
-- KEYS[1]: 预占 hash 的 Key, 例如: reservation:<handle>
-- KEYS[2]: 预占索引 zset 的 Key
-- ARGV[1]: 句柄本身

-- 1. 读出整个 hash
local fields = redis.call('hgetall', KEYS[1])

-- 2. 不存在则直接返回空, 调用方视为幂等空操作
if #fields == 0 then
    return {}
end

-- 3. 原子地删除 hash 和索引条目, 完成认领
redis.call('del', KEYS[1])
redis.call('zrem', KEYS[2], ARGV[1])
return fields
`
