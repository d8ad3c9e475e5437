// internal/service/inventory/domain/errors.go
package domain

import "errors"

var (
	// ErrNotFound 表示商品在台账中不存在。
	ErrNotFound = errors.New("stock item not found")

	// ErrInsufficientStock 是业务结果而非系统故障：
	// 当前库存无法覆盖请求数量，调用方应把它映射成正常的校验失败响应。
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict 表示行锁竞争或版本校验失败。
	// 与 ErrInsufficientStock 区分开，调用方可以选择稍后重试。
	ErrConflict = errors.New("stock row conflict")

	// ErrReservationNotFound 表示预占句柄不存在。
	// 重复释放同一句柄是安全的幂等空操作。
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrReleaseRetryable 表示释放过程失败，注册表条目已被恢复，
	// 预占仍然可被发现，等待下一次重试。
	ErrReleaseRetryable = errors.New("release failed, reservation kept for retry")
)
