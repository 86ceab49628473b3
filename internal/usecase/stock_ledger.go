package usecase

import (
	"context"
	"errors"
	"fmt"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

// StockLedgerは在庫数の唯一の変更経路。
// 行ロック→読み→検証→書き込みの順を守り、コミットは呼び出し側のTx境界に任せる。
type StockLedger struct{}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// ロック後に現在値を読んで検証するので、同じ商品への同時調整は直列化される。
func (l *StockLedger) Adjust(ctx context.Context, r repo.TxRepos, productID int64, delta int64) (model.Product, error) {
	p, err := r.Products().FindByIDForUpdate(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}
	if err != nil {
		return model.Product{}, err
	}

	newQuantity := p.Quantity + delta
	if newQuantity < 0 {
		return model.Product{}, fmt.Errorf("%w: product %d has %d, requested %d",
			ErrInsufficientStock, productID, p.Quantity, -delta)
	}

	if err := r.Products().UpdateQuantity(ctx, productID, newQuantity); err != nil {
		return model.Product{}, err
	}

	p.Quantity = newQuantity
	return p, nil
}

// InventoryRecorderは在庫変動を監査ログに残す。
type InventoryRecorder struct{}

func NewInventoryRecorder() *InventoryRecorder {
	return &InventoryRecorder{}
}

// NewQuantityはTx内でステージ済みの在庫数をそのままスナップショットする。
// 必ずStockLedger.Adjustの直後に呼ぶこと。
func (rec *InventoryRecorder) Record(
	ctx context.Context,
	r repo.TxRepos,
	productID int64,
	delta int64,
	reason model.InventoryLogReason,
	orderID *int64,
	notes *string,
) (model.InventoryLog, error) {
	p, err := r.Products().FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.InventoryLog{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}
	if err != nil {
		return model.InventoryLog{}, err
	}

	entry := model.InventoryLog{
		ProductID:    productID,
		ChangeAmount: delta,
		NewQuantity:  p.Quantity,
		Reason:       reason,
		OrderID:      orderID,
		Notes:        notes,
	}
	return r.InventoryLogs().Create(ctx, entry)
}
