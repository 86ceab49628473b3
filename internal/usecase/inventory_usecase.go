package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

type InventoryUsecase struct {
	tx       repo.TransactionManager
	logs     repo.InventoryLogRepository
	ledger   *StockLedger
	recorder *InventoryRecorder
	logger   *zap.Logger
}

// DI
func NewInventoryUsecase(
	tx repo.TransactionManager,
	logs repo.InventoryLogRepository,
	ledger *StockLedger,
	recorder *InventoryRecorder,
	logger *zap.Logger,
) *InventoryUsecase {
	return &InventoryUsecase{
		tx:       tx,
		logs:     logs,
		ledger:   ledger,
		recorder: recorder,
		logger:   logger,
	}
}

type RestockInput struct {
	ProductID     int64
	QuantityAdded int64
	Notes         *string
}

type RestockOutput struct {
	Product model.Product      `json:"product"`
	Entry   model.InventoryLog `json:"log_entry"`
}

// 在庫を増やして監査ログを1件残す。全部成功したときだけコミット。
func (u *InventoryUsecase) Restock(ctx context.Context, in RestockInput) (RestockOutput, error) {
	if in.ProductID <= 0 {
		return RestockOutput{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	//ロックを取る前に弾く
	if in.QuantityAdded <= 0 {
		return RestockOutput{}, fmt.Errorf("%w: quantity_added must be positive", ErrInvalidInput)
	}

	var out RestockOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := u.ledger.Adjust(ctx, r, in.ProductID, in.QuantityAdded)
		if err != nil {
			return err
		}

		entry, err := u.recorder.Record(ctx, r, in.ProductID, in.QuantityAdded, model.ReasonRestock, nil, in.Notes)
		if err != nil {
			return err
		}

		out = RestockOutput{Product: p, Entry: entry}
		return nil
	})
	if err != nil {
		return RestockOutput{}, err
	}

	u.logger.Info("product restocked",
		zap.Int64("product_id", in.ProductID),
		zap.Int64("quantity_added", in.QuantityAdded),
		zap.Int64("new_quantity", out.Product.Quantity),
	)
	return out, nil
}

type AdjustQuantityInput struct {
	ProductID int64
	Delta     int64
	Notes     *string
}

// 手動の在庫補正（棚卸しなど）。符号付きの差分で調整する。
func (u *InventoryUsecase) AdjustQuantity(ctx context.Context, in AdjustQuantityInput) (RestockOutput, error) {
	if in.ProductID <= 0 {
		return RestockOutput{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	if in.Delta == 0 {
		return RestockOutput{}, fmt.Errorf("%w: delta must be non-zero", ErrInvalidInput)
	}

	var out RestockOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := u.ledger.Adjust(ctx, r, in.ProductID, in.Delta)
		if err != nil {
			return err
		}

		entry, err := u.recorder.Record(ctx, r, in.ProductID, in.Delta, model.ReasonAdjustment, nil, in.Notes)
		if err != nil {
			return err
		}

		out = RestockOutput{Product: p, Entry: entry}
		return nil
	})
	if err != nil {
		return RestockOutput{}, err
	}

	u.logger.Info("stock adjusted",
		zap.Int64("product_id", in.ProductID),
		zap.Int64("delta", in.Delta),
		zap.Int64("new_quantity", out.Product.Quantity),
	)
	return out, nil
}

type InventoryLogListOutput struct {
	Items []model.InventoryLog `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

func (u *InventoryUsecase) ListLogs(ctx context.Context, productID int64, page int, limit int) (InventoryLogListOutput, error) {
	if productID <= 0 {
		return InventoryLogListOutput{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	if page < 1 {
		return InventoryLogListOutput{}, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	if limit < 1 || limit > 100 {
		return InventoryLogListOutput{}, fmt.Errorf("%w: invalid limit", ErrInvalidInput)
	}

	items, total, err := u.logs.ListByProductID(ctx, productID, page, limit)
	if err != nil {
		return InventoryLogListOutput{}, err
	}

	return InventoryLogListOutput{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
