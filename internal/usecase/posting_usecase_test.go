package usecase_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"inventory/internal/domain/model"
	"inventory/internal/repository/memrepo"
	"inventory/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newPosting(t *testing.T) (*usecase.PostingUsecase, *memrepo.Store) {
	store := memrepo.New()
	return usecase.NewPostingUsecase(store, newStepClock(), zaptest.NewLogger(t)), store
}

func TestPosting_StockIn_IncrementsStockAndAppendsTransaction(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)
	sup := seedSupplier(t, store, "Tech Supplies Inc.")
	price := decimal.RequireFromString("12.50")

	out, err := uc.StockIn(ctx, usecase.StockInInput{
		ItemID:          it.ID,
		Quantity:        10,
		UnitPrice:       &price,
		SupplierID:      &sup.ID,
		ReferenceNumber: " PO-1 ",
		PostedBy:        "ops@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(35), out.Item.CurrentStock)
	assert.Equal(t, int64(35), stockOf(t, store, it.ID))
	assert.Equal(t, int64(1), txnCount(t, store, it.ID))

	txn := out.Transaction
	assert.Equal(t, model.KindStockIn, txn.Kind())
	assert.Equal(t, int64(10), txn.Quantity)
	assert.Equal(t, int64(25), txn.StockBefore)
	assert.Equal(t, int64(35), txn.StockAfter)
	assert.Equal(t, "PO-1", txn.ReferenceNumber)
	assert.Equal(t, "ops@example.com", txn.PostedBy)
	require.NotNil(t, txn.TotalValue())
	assert.Equal(t, "125", txn.TotalValue().String())
}

func TestPosting_StockOut_Decrements(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)

	out, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Item.CurrentStock)
	assert.Equal(t, int64(-25), out.Transaction.Delta())
	assert.Equal(t, model.StockStatusOut, out.Item.StockStatus())
}

func TestPosting_StockOut_InsufficientStock_LeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)

	_, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 30})

	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrInsufficientStock))
	assertErrContains(t, err, "Available: 25")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	assert.Equal(t, int64(25), stockOf(t, store, it.ID))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))
}

func TestPosting_ItemNotFound(t *testing.T) {
	uc, _ := newPosting(t)

	_, err := uc.StockIn(context.Background(), usecase.StockInInput{ItemID: 999, Quantity: 1})
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
	assertErrContains(t, err, "Item not found")
}

func TestPosting_ValidationBeforeExistence(t *testing.T) {
	uc, _ := newPosting(t)

	//存在しない品目でも数量不正が先に返る
	_, err := uc.StockOut(context.Background(), usecase.StockOutInput{ItemID: 999, Quantity: 0})
	assert.True(t, errors.Is(err, usecase.ErrValidation))
	assertErrContains(t, err, "quantity must be > 0")
}

func TestPosting_ExistenceBeforeBalance(t *testing.T) {
	uc, _ := newPosting(t)

	_, err := uc.StockOut(context.Background(), usecase.StockOutInput{ItemID: 999, Quantity: 1000})
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestPosting_InputValidation(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 5)
	neg := decimal.RequireFromString("-1")
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	cases := []struct {
		name string
		run  func() error
		want string
	}{
		{"negative quantity", func() error {
			_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: -3})
			return err
		}, "quantity must be > 0"},
		{"negative price", func() error {
			_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: 1, UnitPrice: &neg})
			return err
		}, "unit price must be >= 0"},
		{"reference too long", func() error {
			_, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 1, ReferenceNumber: string(long)})
			return err
		}, "reference number too long"},
		{"invalid item id", func() error {
			_, err := uc.Return(ctx, usecase.ReturnInput{ItemID: 0, Quantity: 1})
			return err
		}, "invalid item id"},
		{"negative count", func() error {
			_, err := uc.Adjust(ctx, usecase.AdjustmentInput{ItemID: it.ID, CountedStock: -1})
			return err
		}, "counted stock must be >= 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			assert.True(t, errors.Is(err, usecase.ErrValidation))
			assertErrContains(t, err, tc.want)
		})
	}
	assert.Equal(t, int64(5), stockOf(t, store, it.ID))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))
}

func TestPosting_UnknownSupplier_RollsBack(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)
	missing := int64(4242)

	_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: 5, SupplierID: &missing})
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
	assertErrContains(t, err, "Supplier not found")

	assert.Equal(t, int64(25), stockOf(t, store, it.ID))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))
}

func TestPosting_MissingTransactionType_IsNotFound(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)
	store.RemoveTransactionType(model.KindStockOut)

	_, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 5})
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
	assertErrContains(t, err, "STOCK_OUT")
	assert.Equal(t, int64(25), stockOf(t, store, it.ID))
}

func TestPosting_StoreFailureAfterAppend_RollsBackBoth(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)
	store.FailOn("items.SetStock", errors.New("connection reset"))

	_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: 10})
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "db error", he.Message)

	store.FailOn("items.SetStock", nil)
	assert.Equal(t, int64(25), stockOf(t, store, it.ID))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))
}

func TestPosting_Adjustment(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)

	out, err := uc.Adjust(ctx, usecase.AdjustmentInput{ItemID: it.ID, CountedStock: 21, Notes: "cycle count"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), out.Item.CurrentStock)
	assert.Equal(t, int64(4), out.Transaction.Quantity)
	assert.Equal(t, int64(-4), out.Transaction.Delta())
	assert.Equal(t, model.KindAdjustment, out.Transaction.Kind())

	out, err = uc.Adjust(ctx, usecase.AdjustmentInput{ItemID: it.ID, CountedStock: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.Transaction.Quantity)
	assert.Equal(t, int64(30), stockOf(t, store, it.ID))
}

func TestPosting_Adjustment_NoDifference(t *testing.T) {
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)

	_, err := uc.Adjust(context.Background(), usecase.AdjustmentInput{ItemID: it.ID, CountedStock: 25})
	assert.True(t, errors.Is(err, usecase.ErrValidation))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))
}

func TestPosting_QuantityOverflow_IsValidation(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 25)

	_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: math.MaxInt64})
	assert.True(t, errors.Is(err, usecase.ErrValidation))
	assertErrContains(t, err, "quantity too large")

	_, err = uc.Return(ctx, usecase.ReturnInput{ItemID: it.ID, Quantity: math.MaxInt64 - 24})
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	assert.Equal(t, int64(25), stockOf(t, store, it.ID))
	assert.Equal(t, int64(0), txnCount(t, store, it.ID))

	//ちょうど上限までは入る
	out, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: math.MaxInt64 - 25})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), out.Item.CurrentStock)
}

func TestPosting_Return_Increments(t *testing.T) {
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 3)

	out, err := uc.Return(context.Background(), usecase.ReturnInput{ItemID: it.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Item.CurrentStock)
	assert.Equal(t, model.KindReturn, out.Transaction.Kind())
}

// 何回記帳しても 在庫 = 初期在庫 + Σ増減 が成り立つ
func TestPosting_LedgerMatchesLog(t *testing.T) {
	ctx := context.Background()
	uc, store := newPosting(t)
	it := seedItem(t, store, "ELEC-001", 10)

	steps := []func() error{
		func() error { _, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: 7}); return err },
		func() error { _, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 20}); return err },
		func() error { _, err := uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 12}); return err },
		func() error { _, err := uc.Return(ctx, usecase.ReturnInput{ItemID: it.ID, Quantity: 1}); return err },
		func() error { _, err := uc.Adjust(ctx, usecase.AdjustmentInput{ItemID: it.ID, CountedStock: 4}); return err },
	}
	for _, step := range steps {
		_ = step()
	}

	txns, _, err := store.Transactions().List(ctx, repoQuery(it.ID))
	require.NoError(t, err)

	sum := int64(10)
	for _, txn := range txns {
		sum += txn.Delta()
	}
	assert.Len(t, txns, 4)
	assert.Equal(t, sum, stockOf(t, store, it.ID))
	assert.Equal(t, int64(4), stockOf(t, store, it.ID))
}
