package repository

import (
	"context"

	"stockadmin/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context, page int, limit int) ([]model.Category, int64, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	//名前の一意性チェック用
	FindByName(ctx context.Context, name string) (model.Category, bool, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
