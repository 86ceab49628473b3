package repository

import (
	"context"

	"stockadmin/internal/domain/model"
)

// 監査ログの保存・一覧取得の約束。追記専用。
type InventoryLogRepository interface {
	//1件保存し、採番済みのエントリを返す（Tx内でもIDが確定する）
	Create(ctx context.Context, entry model.InventoryLog) (model.InventoryLog, error)

	//商品ごとの履歴を新しい順で返す
	ListByProductID(ctx context.Context, productID int64, page int, limit int) ([]model.InventoryLog, int64, error)
}
