package repository

import (
	"context"
	"errors"

	"stockadmin/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	CategoryID *int64
	LowStock   *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery, lowStockThreshold int64) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 排他行ロック付き取得。ロックはトランザクション終了まで保持される。
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	// 在庫数以外の属性を更新
	Update(ctx context.Context, p model.Product) error

	// 在庫数の更新。StockLedger以外から呼ばない。
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error

	Delete(ctx context.Context, id int64) error
	CountByCategoryID(ctx context.Context, categoryID int64) (int64, error)
}
