package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockadmin/internal/domain/model"
	"stockadmin/internal/usecase"
)

func TestStockLedger_AdjustValidatesAgainstCurrentValue(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 10, cat.ID)
	ledger := usecase.NewStockLedger()
	r := fakeTxRepos{s: s}

	got, err := ledger.Adjust(context.Background(), r, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)
	assert.Equal(t, int64(7), s.products[p.ID].Quantity)

	//今の値（7）に対して検証される
	_, err = ledger.Adjust(context.Background(), r, p.ID, -8)
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)
	assert.Equal(t, int64(7), s.products[p.ID].Quantity)
}

func TestStockLedger_AdjustProductNotFound(t *testing.T) {
	s := newFakeStore()
	ledger := usecase.NewStockLedger()

	_, err := ledger.Adjust(context.Background(), fakeTxRepos{s: s}, 99, 1)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

func TestInventoryRecorder_SnapshotsStagedQuantity(t *testing.T) {
	s := newFakeStore()
	cat := s.addCategory("drinks")
	p := s.addProduct("coffee", "4.50", 10, cat.ID)
	ledger := usecase.NewStockLedger()
	recorder := usecase.NewInventoryRecorder()
	r := fakeTxRepos{s: s}

	_, err := ledger.Adjust(context.Background(), r, p.ID, -3)
	require.NoError(t, err)

	entry, err := recorder.Record(context.Background(), r, p.ID, -3, model.ReasonSale, nil, nil)
	require.NoError(t, err)

	//Adjust直後に呼ぶと、変動後の値がそのまま記録される
	assert.Equal(t, int64(-3), entry.ChangeAmount)
	assert.Equal(t, int64(7), entry.NewQuantity)
	assert.NotZero(t, entry.ID)
}
