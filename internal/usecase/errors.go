package usecase

import "errors"

// 呼び出し側（HTTP層など）が分類だけ見て応答を決められるエラー群。
// errors.Is で判定し、詳細は %w で包んで付ける。
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category still has products")

	//検証済みの減算が負になった場合。通常到達しないバグ検知用。
	ErrStockConsistency = errors.New("stock consistency violation")
)
