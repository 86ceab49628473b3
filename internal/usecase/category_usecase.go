package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockadmin/internal/domain/model"
	repo "stockadmin/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

// DI
func NewCategoryUsecase(categories repo.CategoryRepository, products repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, products: products}
}

type CategoryListOutput struct {
	Items []model.Category `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *CategoryUsecase) ListCategories(ctx context.Context, page int, limit int) (CategoryListOutput, error) {
	if page < 1 {
		return CategoryListOutput{}, fmt.Errorf("%w: invalid page", ErrInvalidInput)
	}
	if limit < 1 || limit > 100 {
		return CategoryListOutput{}, fmt.Errorf("%w: invalid limit", ErrInvalidInput)
	}

	items, total, err := u.categories.List(ctx, page, limit)
	if err != nil {
		return CategoryListOutput{}, err
	}

	return CategoryListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *CategoryUsecase) GetCategory(ctx context.Context, categoryID int64) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	c, err := u.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, fmt.Errorf("%w: id=%d", ErrCategoryNotFound, categoryID)
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	//名前の一意性チェック
	if _, found, err := u.categories.FindByName(ctx, name); err != nil {
		return model.Category{}, err
	} else if found {
		return model.Category{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
	}

	return u.categories.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, categoryID int64, in UpdateCategoryInput) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Category{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	c, err := u.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, fmt.Errorf("%w: id=%d", ErrCategoryNotFound, categoryID)
	}
	if err != nil {
		return model.Category{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != c.Name {
			if _, found, err := u.categories.FindByName(ctx, name); err != nil {
				return model.Category{}, err
			} else if found {
				return model.Category{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
			}
			c.Name = name
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}

	if err := u.categories.Update(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// 参照している商品が残っている間は削除できない。
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, categoryID int64) error {
	if categoryID <= 0 {
		return fmt.Errorf("%w: invalid category id", ErrInvalidInput)
	}

	n, err := u.products.CountByCategoryID(ctx, categoryID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: id=%d has %d products", ErrCategoryInUse, categoryID, n)
	}

	err = u.categories.Delete(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: id=%d", ErrCategoryNotFound, categoryID)
	}
	return err
}
