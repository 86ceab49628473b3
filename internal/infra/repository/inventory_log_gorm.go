package repository

import (
	"context"

	"gorm.io/gorm"

	"stockadmin/internal/domain/model"
)

type InventoryLogGormRepository struct {
	db *gorm.DB
}

func NewInventoryLogGormRepository(db *gorm.DB) *InventoryLogGormRepository {
	return &InventoryLogGormRepository{db: db}
}

// 1件保存。CreateでIDが採番されるので、Tx内でもコミット前に参照できる。
func (r *InventoryLogGormRepository) Create(ctx context.Context, entry model.InventoryLog) (model.InventoryLog, error) {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return model.InventoryLog{}, err
	}
	return entry, nil
}

// 商品ごとの履歴（新しい順）
func (r *InventoryLogGormRepository) ListByProductID(ctx context.Context, productID int64, page int, limit int) ([]model.InventoryLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryLog{}).Where("product_id = ?", productID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.InventoryLog{}, 0, err
	}

	var logs []model.InventoryLog
	offset := (page - 1) * limit
	err := q.Order("timestamp desc").Order("id desc").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return []model.InventoryLog{}, 0, err
	}

	return logs, total, nil
}
