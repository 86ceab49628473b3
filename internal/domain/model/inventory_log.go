package model

import "time"

// 在庫変動の理由
type InventoryLogReason string

const (
	ReasonSale         InventoryLogReason = "SALE"
	ReasonRestock      InventoryLogReason = "RESTOCK"
	ReasonManualUpdate InventoryLogReason = "MANUAL_UPDATE"
	ReasonReturn       InventoryLogReason = "RETURN"
	ReasonInitialStock InventoryLogReason = "INITIAL_STOCK"
	ReasonAdjustment   InventoryLogReason = "ADJUSTMENT"
)

// 在庫変動の監査ログ。
// 「どの商品が」「いくつ」「なぜ」「結果いくつになったか」を残す。
// 追記専用：作成以外の操作は存在しない。
type InventoryLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"not null;autoCreateTime;index" json:"timestamp"`

	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//符号付き変動量（増加は正、減少は負）
	ChangeAmount int64 `gorm:"not null" json:"change_amount"`

	//変動後の在庫数スナップショット
	NewQuantity int64 `gorm:"not null" json:"new_quantity"`

	Reason InventoryLogReason `gorm:"type:varchar(20);not null;index" json:"reason"`

	Notes *string `gorm:"type:varchar(255)" json:"notes,omitempty"`

	//SALE / RETURN のときだけ入る
	OrderID *int64 `gorm:"index" json:"order_id,omitempty"`
}
