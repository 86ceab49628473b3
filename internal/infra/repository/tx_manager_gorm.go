package repository

import (
	"context"

	"gorm.io/gorm"

	repo "stockadmin/internal/repository"
)

type txReposGorm struct {
	categories    repo.CategoryRepository
	products      repo.ProductRepository
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	inventoryLogs repo.InventoryLogRepository
}

func (r *txReposGorm) Categories() repo.CategoryRepository        { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) InventoryLogs() repo.InventoryLogRepository { return r.inventoryLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがエラーを返したらロールバック、返さなければコミット。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			categories:    NewCategoryGormRepository(tx),
			products:      NewProductGormRepository(tx),
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			inventoryLogs: NewInventoryLogGormRepository(tx),
		}
		return fn(r)
	})
}
