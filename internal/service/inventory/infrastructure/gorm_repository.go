// internal/service/inventory/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"database/sql"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vertex/internal/service/inventory/domain"
)

// MySQL 错误码：1213 死锁，1205 等锁超时。
// 两者都意味着事务被整体回滚，对调用方来说等价于可重试的冲突。
const (
	mysqlErrDeadlock    = 1213
	mysqlErrLockTimeout = 1205
)

// GormStockRepository 是 domain.StockRepository 的 GORM/MySQL 实现。
// Mutate 在可串行化隔离级别下用 SELECT ... FOR UPDATE 持有行锁，
// 再叠加版本号校验，提供台账变更所需的原子性。
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository 创建一个新的 GORM 仓储实例
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) FindByCode(ctx context.Context, productCode string) (*domain.StockItem, error) {
	var model StockItemModel
	err := r.db.WithContext(ctx).Where("product_code = ?", productCode).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ToDomainStockItem(&model), nil
}

func (r *GormStockRepository) Save(ctx context.Context, item *domain.StockItem) error {
	if item.ID == 0 {
		model := FromDomainStockItem(item)
		model.Version = 1
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return translateMysqlErr(err)
		}
		item.ID = model.ID
		item.Version = model.Version
		return nil
	}

	// 带版本校验的部分更新：版本不匹配说明有并发写入者赢了，
	// 行为上等价于锁冲突。
	result := r.db.WithContext(ctx).Model(&StockItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]interface{}{
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"description":  item.Description,
			"version":      item.Version + 1,
		})
	if result.Error != nil {
		return translateMysqlErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	item.Version++
	return nil
}

func (r *GormStockRepository) Mutate(ctx context.Context, productCode string, fn func(item *domain.StockItem) error) (*domain.StockItem, error) {
	var updated *domain.StockItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model StockItemModel
		// 排他行锁只在本事务内持有，事务结束即释放
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_code = ?", productCode).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		item := ToDomainStockItem(&model)
		if err := fn(item); err != nil {
			return err
		}

		result := tx.Model(&StockItemModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version).
			Updates(map[string]interface{}{
				"product_name": item.ProductName,
				"quantity":     item.Quantity,
				"description":  item.Description,
				"version":      model.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrConflict
		}

		item.Version = model.Version + 1
		updated = item
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, translateMysqlErr(err)
	}
	return updated, nil
}

// translateMysqlErr 把 MySQL 的锁类错误归一成 domain.ErrConflict。
func translateMysqlErr(err error) error {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockTimeout {
			return domain.ErrConflict
		}
	}
	return err
}
