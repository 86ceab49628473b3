package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

type ProductUsecase struct {
	products   repo.ProductRepository
	categories repo.CategoryRepository
	tx         repo.TransactionManager
	ledger     *StockLedger
	recorder   *InventoryRecorder
	threshold  int64
}

// DI
func NewProductUsecase(
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	tx repo.TransactionManager,
	ledger *StockLedger,
	recorder *InventoryRecorder,
	lowStockThreshold int64,
) *ProductUsecase {
	return &ProductUsecase{
		products:   products,
		categories: categories,
		tx:         tx,
		ledger:     ledger,
		recorder:   recorder,
		threshold:  lowStockThreshold,
	}
}

type ListProductsInput struct {
	Page       int
	Limit      int
	CategoryID *int64
	LowStock   *bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, fmt.Errorf("%w: invalid limit", ErrInvalidInput)
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		CategoryID: in.CategoryID,
		LowStock:   in.LowStock,
	}, u.threshold)
	if err != nil {
		return ProductListOutput{}, err
	}

	for i := range items {
		items[i].IsLowStock = items[i].Quantity < u.threshold
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}
	if err != nil {
		return model.Product{}, err
	}

	p.IsLowStock = p.Quantity < u.threshold
	return p, nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
	CategoryID  int64
}

// 商品作成。初期在庫があればINITIAL_STOCKのログを残す。
func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return model.Product{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return model.Product{}, fmt.Errorf("%w: quantity must be >= 0", ErrInvalidInput)
	}
	if in.CategoryID <= 0 {
		return model.Product{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カテゴリの存在確認
		if _, err := r.Categories().FindByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return fmt.Errorf("%w: id=%d", ErrCategoryNotFound, in.CategoryID)
			}
			return err
		}

		p, err := r.Products().Create(ctx, model.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			Quantity:    in.Quantity,
			CategoryID:  in.CategoryID,
		})
		if err != nil {
			return err
		}

		//初期在庫のログ（0からの履歴再生で現在値に一致させる）
		if p.Quantity > 0 {
			if _, err := u.recorder.Record(ctx, r, p.ID, p.Quantity, model.ReasonInitialStock, nil, nil); err != nil {
				return err
			}
		}

		created = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	return u.GetProduct(ctx, created.ID)
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int64
	CategoryID  *int64
}

// 部分更新。在庫数の変更はStockLedgerを通し、MANUAL_UPDATEのログを残す。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in UpdateProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Product{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return model.Product{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return model.Product{}, fmt.Errorf("%w: quantity must be >= 0", ErrInvalidInput)
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return model.Product{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//在庫を触る可能性があるのでロック付きで読む
		p, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
		}
		if err != nil {
			return err
		}

		if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
			if _, err := r.Categories().FindByID(ctx, *in.CategoryID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return fmt.Errorf("%w: id=%d", ErrCategoryNotFound, *in.CategoryID)
				}
				return err
			}
			p.CategoryID = *in.CategoryID
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}

		if err := r.Products().Update(ctx, p); err != nil {
			return err
		}

		//在庫数の変更は台帳経由
		if in.Quantity != nil && *in.Quantity != p.Quantity {
			delta := *in.Quantity - p.Quantity
			if _, err := u.ledger.Adjust(ctx, r, productID, delta); err != nil {
				return err
			}
			notes := "manual catalog update"
			if _, err := u.recorder.Record(ctx, r, productID, delta, model.ReasonManualUpdate, nil, &notes); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	return u.GetProduct(ctx, productID)
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: invalid product id", ErrInvalidInput)
	}

	err := u.products.Delete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}
	return err
}
