package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockadmin/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

// 期間ごとの売上集計（COMPLETEDのみ）
type RevenuePoint struct {
	Period       string          `json:"period"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type OrderRepository interface {
	//明細と商品（カテゴリ込み）をまとめて読む
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//作成時にIDを採番して返す（コミット前に参照できる）
	Create(ctx context.Context, order model.Order) (int64, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error

	RevenueSummary(ctx context.Context, period string, from *time.Time, to *time.Time) ([]RevenuePoint, error)
}
