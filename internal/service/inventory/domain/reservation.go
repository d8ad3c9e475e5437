// internal/service/inventory/domain/reservation.go
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reservation 是一次未释放的库存预占。
// Handle 是不透明的全局唯一令牌，台账扣减成功时创建，释放成功时删除。
type Reservation struct {
	Handle      string
	ProductCode string
	Quantity    int
	CreatedAt   time.Time
}

// NewHandle 生成一个预占句柄。随机 128 位，碰撞概率按零处理。
func NewHandle() string {
	return uuid.New().String()
}

// ReservationRegistry 是预占注册表的出站端口。
// 对同一个 handle 而言 Insert / Claim / Get 必须彼此线性化：
// 任何时刻只能有一个调用方认为自己持有该句柄的权威副本。
//
// 默认实现是进程内 map；生产环境应使用 Redis 实现，
// 避免进程崩溃时丢失未释放的预占记录。
type ReservationRegistry interface {
	// Insert 登记一条新的预占。
	Insert(ctx context.Context, res Reservation) error

	// Claim 原子地取出并删除一条预占。
	// 句柄不存在时返回 ErrReservationNotFound。
	// 并发的两次 Claim 只有一个能成功，这是双重释放安全的基础。
	Claim(ctx context.Context, handle string) (*Reservation, error)

	// Get 只读查询，不改变所有权。
	Get(ctx context.Context, handle string) (*Reservation, error)

	// ExpiredBefore 列出创建时间早于 t 的预占，供过期回收扫描使用。
	ExpiredBefore(ctx context.Context, t time.Time) ([]Reservation, error)
}
