package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockadmin/internal/domain/model"
	"stockadmin/internal/usecase"
)

func newInventoryUsecase(s *fakeStore) *usecase.InventoryUsecase {
	return usecase.NewInventoryUsecase(
		&fakeTxManager{store: s},
		&fakeLogRepo{s: s},
		usecase.NewStockLedger(),
		usecase.NewInventoryRecorder(),
		zap.NewNop(),
	)
}

func TestRestock_IncreasesStockAndWritesLog(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 10, cat.ID)
	uc := newInventoryUsecase(s)

	notes := "weekly delivery"
	out, err := uc.Restock(context.Background(), usecase.RestockInput{
		ProductID:     p.ID,
		QuantityAdded: 5,
		Notes:         &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15), out.Product.Quantity)
	assert.Equal(t, int64(15), s.products[p.ID].Quantity)

	assert.Equal(t, model.ReasonRestock, out.Entry.Reason)
	assert.Equal(t, int64(5), out.Entry.ChangeAmount)
	assert.Equal(t, int64(15), out.Entry.NewQuantity)
	assert.Nil(t, out.Entry.OrderID)
	require.NotNil(t, out.Entry.Notes)
	assert.Equal(t, notes, *out.Entry.Notes)
}

func TestRestock_RejectsNonPositiveQuantity(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 10, cat.ID)
	uc := newInventoryUsecase(s)

	for _, q := range []int64{0, -5} {
		_, err := uc.Restock(context.Background(), usecase.RestockInput{
			ProductID:     p.ID,
			QuantityAdded: q,
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	}

	//弾かれた操作は痕跡を残さない
	assert.Equal(t, int64(10), s.products[p.ID].Quantity)
	assert.Empty(t, s.logs)
}

func TestRestock_ProductNotFound(t *testing.T) {
	s := newFakeStore()
	uc := newInventoryUsecase(s)

	_, err := uc.Restock(context.Background(), usecase.RestockInput{
		ProductID:     42,
		QuantityAdded: 5,
	})
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
	assert.Empty(t, s.logs)
}

func TestAdjustQuantity_NegativeDelta(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 10, cat.ID)
	uc := newInventoryUsecase(s)

	out, err := uc.AdjustQuantity(context.Background(), usecase.AdjustQuantityInput{
		ProductID: p.ID,
		Delta:     -4,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.Product.Quantity)
	assert.Equal(t, model.ReasonAdjustment, out.Entry.Reason)
	assert.Equal(t, int64(-4), out.Entry.ChangeAmount)
}

func TestAdjustQuantity_CannotGoNegative(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 3, cat.ID)
	uc := newInventoryUsecase(s)

	_, err := uc.AdjustQuantity(context.Background(), usecase.AdjustQuantityInput{
		ProductID: p.ID,
		Delta:     -4,
	})
	require.ErrorIs(t, err, usecase.ErrInsufficientStock)

	assert.Equal(t, int64(3), s.products[p.ID].Quantity)
	assert.Empty(t, s.logs)
}

func TestAdjustQuantity_ZeroDelta(t *testing.T) {
	s := newFakeStore()
	uc := newInventoryUsecase(s)

	_, err := uc.AdjustQuantity(context.Background(), usecase.AdjustQuantityInput{
		ProductID: 1,
		Delta:     0,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestListLogs_NewestFirstWithPaging(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 0, cat.ID)
	uc := newInventoryUsecase(s)

	for i := 0; i < 5; i++ {
		_, err := uc.Restock(context.Background(), usecase.RestockInput{
			ProductID:     p.ID,
			QuantityAdded: int64(i + 1),
		})
		require.NoError(t, err)
	}

	out, err := uc.ListLogs(context.Background(), p.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Total)
	require.Len(t, out.Items, 2)

	//新しい順：最後のrestock（+5）が先頭
	assert.Equal(t, int64(5), out.Items[0].ChangeAmount)
	assert.Equal(t, int64(4), out.Items[1].ChangeAmount)

	_, err = uc.ListLogs(context.Background(), 0, 1, 2)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	_, err = uc.ListLogs(context.Background(), p.ID, 0, 2)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
	_, err = uc.ListLogs(context.Background(), p.ID, 1, 101)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}
