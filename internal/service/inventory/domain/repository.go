// internal/service/inventory/domain/repository.go
package domain

import "context"

// StockRepository 定义了库存台账的持久化接口。
// 它位于领域层，但由基础设施层实现。
type StockRepository interface {
	// FindByCode 按商品编码查找台账行，不存在时返回 ErrNotFound。
	FindByCode(ctx context.Context, productCode string) (*StockItem, error)

	// Save 持久化一行台账（创建或更新），每次成功写入都使 Version 递增。
	Save(ctx context.Context, item *StockItem) error

	// Mutate 是台账变更的事务外壳：在可串行化隔离级别下持有目标行的
	// 排他锁，加载行、执行 fn、持久化（版本递增），整体原子完成。
	//   - 行不存在时在加锁前返回 ErrNotFound；
	//   - fn 返回错误时整个事务回滚，没有任何部分写入；
	//   - 锁竞争或版本校验失败返回 ErrConflict。
	// 锁只在 Mutate 调用期间持有，调用方不得在 fn 里做慢操作。
	Mutate(ctx context.Context, productCode string, fn func(item *StockItem) error) (*StockItem, error)
}
