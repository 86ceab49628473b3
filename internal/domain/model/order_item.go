package model

import "github.com/shopspring/decimal"

type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	//注文時点の単価スナップショット。以後のカタログ価格変更の影響を受けない。
	PricePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
