package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id asc") }).
		Preload("Items.Product.Category").
		First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//期間絞り込み（Toは排他的上限）
	if f.From != nil {
		q = q.Where("order_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("order_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id asc") }).
		Preload("Items.Product.Category").
		Order("order_date desc").Order("id desc").
		Limit(f.Limit).Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, err
	}

	return items, total, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文削除。明細はDBの外部キー（ON DELETE CASCADE）で一緒に消える。
func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 集計単位 → to_char書式
var revenuePeriodFormats = map[string]string{
	"daily":   "YYYY-MM-DD",
	"weekly":  "IYYY-IW",
	"monthly": "YYYY-MM",
	"annual":  "YYYY",
}

func (r *OrderGormRepository) RevenueSummary(ctx context.Context, period string, from *time.Time, to *time.Time) ([]repo.RevenuePoint, error) {
	format, ok := revenuePeriodFormats[period]
	if !ok {
		return nil, fmt.Errorf("unknown revenue period %q", period)
	}

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("to_char(order_date, ?) AS period, SUM(total_amount) AS total_revenue", format).
		Where("status = ?", model.OrderStatusCompleted)

	if from != nil {
		q = q.Where("order_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("order_date < ?", *to)
	}

	var points []repo.RevenuePoint
	if err := q.Group("period").Order("period asc").Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
