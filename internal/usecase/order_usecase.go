package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	ledger    *StockLedger
	recorder  *InventoryRecorder
	threshold int64
	logger    *zap.Logger
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	ledger *StockLedger,
	recorder *InventoryRecorder,
	lowStockThreshold int64,
	logger *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		ledger:    ledger,
		recorder:  recorder,
		threshold: lowStockThreshold,
		logger:    logger,
	}
}

type OrderLineInput struct {
	ProductID int64
	Quantity  int64

	//指定があればカタログ価格より優先される単価
	PricePerUnit *decimal.Decimal
}

type PlaceOrderInput struct {
	Items  []OrderLineInput
	Status *model.OrderStatus
}

// 複数明細の注文を1トランザクションで確定する。
// どの明細で失敗しても在庫・注文・監査ログの全部を巻き戻す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	if len(in.Items) == 0 {
		return model.Order{}, ErrEmptyOrder
	}
	for _, line := range in.Items {
		if line.ProductID <= 0 {
			return model.Order{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return model.Order{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if line.PricePerUnit != nil && line.PricePerUnit.IsNegative() {
			return model.Order{}, fmt.Errorf("%w: price_per_unit must be >= 0", ErrInvalidInput)
		}
	}

	status := model.OrderStatusPending
	if in.Status != nil {
		switch *in.Status {
		case model.OrderStatusPending, model.OrderStatusCompleted, model.OrderStatusCancelled:
			status = *in.Status
		default:
			return model.Order{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
	}

	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//1. 行ロックを取りながら検証し、スナップショット単価と合計を確定する。
		//   同じ商品が複数明細に出たときは、先行明細が確保した分を差し引いて判定する。
		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(in.Items))
		claimed := map[int64]int64{}

		for _, line := range in.Items {
			p, err := r.Products().FindByIDForUpdate(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("%w: id=%d", ErrProductNotFound, line.ProductID)
			}
			if err != nil {
				return err
			}

			available := p.Quantity - claimed[line.ProductID]
			if available < line.Quantity {
				return fmt.Errorf("%w: product %d has %d, requested %d",
					ErrInsufficientStock, line.ProductID, available, line.Quantity)
			}
			claimed[line.ProductID] += line.Quantity

			price := p.Price
			if line.PricePerUnit != nil {
				price = *line.PricePerUnit
			}
			total = total.Add(price.Mul(decimal.NewFromInt(line.Quantity)))

			items = append(items, model.OrderItem{
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				PricePerUnit: price,
			})
		}

		//2. 注文を作成してIDを採番（明細とログが参照する）
		id, err := r.Orders().Create(ctx, model.Order{
			TotalAmount: total,
			Status:      status,
		})
		if err != nil {
			return err
		}
		orderID = id

		//3. 明細ごとに在庫を減算し、直後にSALEログを残す。
		//   ログのNewQuantityはその明細の減算直後の値になる。
		for _, it := range items {
			if _, err := u.ledger.Adjust(ctx, r, it.ProductID, -it.Quantity); err != nil {
				if errors.Is(err, ErrInsufficientStock) {
					//手順1で検証済みなので、ここに来たら整合性バグ
					return fmt.Errorf("%w: product %d went negative while placing order %d",
						ErrStockConsistency, it.ProductID, id)
				}
				return err
			}

			if _, err := u.recorder.Record(ctx, r, it.ProductID, -it.Quantity, model.ReasonSale, &id, nil); err != nil {
				return err
			}
		}

		//4. 明細を一括作成
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	//参照系と同じ形（明細・商品込み）で返す
	out, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	u.flagLowStock(&out)

	u.logger.Info("order placed",
		zap.Int64("order_id", orderID),
		zap.Int("lines", len(in.Items)),
		zap.String("total_amount", out.TotalAmount.String()),
	)
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, fmt.Errorf("%w: id=%d", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return model.Order{}, err
	}

	u.flagLowStock(&o)
	return o, nil
}

type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	From   *time.Time
	To     *time.Time
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListOrders(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, fmt.Errorf("%w: invalid limit", ErrInvalidInput)
	}
	if in.Status != "" && !validOrderStatus(in.Status) {
		return OrderListOutput{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	orders, total, err := u.orders.List(ctx, repo.OrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return OrderListOutput{}, err
	}

	for i := range orders {
		u.flagLowStock(&orders[i])
	}

	return OrderListOutput{
		Items: orders,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// ステータス更新。CANCELLEDへ変えるときは在庫を戻し、明細ごとにRETURNログを残す。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, newStatus model.OrderStatus) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}
	if !validOrderStatus(string(newStatus)) {
		return model.Order{}, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: id=%d", ErrOrderNotFound, orderID)
		}
		if err != nil {
			return err
		}

		//すでに同じなら何もしない
		if o.Status == newStatus {
			return nil
		}
		//終端ガード
		if o.Status == model.OrderStatusCancelled {
			return fmt.Errorf("%w: cannot change cancelled order", ErrInvalidInput)
		}

		//キャンセル時だけ在庫戻し
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			for _, it := range items {
				if _, err := u.ledger.Adjust(ctx, r, it.ProductID, it.Quantity); err != nil {
					return err
				}
				if _, err := u.recorder.Record(ctx, r, it.ProductID, it.Quantity, model.ReasonReturn, &orderID, nil); err != nil {
					return err
				}
			}
		}

		return r.Orders().UpdateStatus(ctx, orderID, newStatus)
	})
	if err != nil {
		return model.Order{}, err
	}

	out, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	u.flagLowStock(&out)
	return out, nil
}

// 注文削除。明細はカスケードで消える。在庫は戻さない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return fmt.Errorf("%w: invalid order id", ErrInvalidInput)
	}

	err := u.orders.Delete(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: id=%d", ErrOrderNotFound, orderID)
	}
	return err
}

// 売上集計の単位
var revenuePeriods = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"annual":  true,
}

func (u *OrderUsecase) RevenueSummary(ctx context.Context, period string, from *time.Time, to *time.Time) ([]repo.RevenuePoint, error) {
	if !revenuePeriods[period] {
		return nil, fmt.Errorf("%w: period must be daily, weekly, monthly or annual", ErrInvalidInput)
	}
	return u.orders.RevenueSummary(ctx, period, from, to)
}

func (u *OrderUsecase) flagLowStock(o *model.Order) {
	for i := range o.Items {
		if p := o.Items[i].Product; p != nil {
			p.IsLowStock = p.Quantity < u.threshold
		}
	}
}

func validOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusCompleted, model.OrderStatusCancelled:
		return true
	}
	return false
}
