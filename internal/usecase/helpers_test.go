package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"
	"inventory/internal/repository/memrepo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), want), "error %q should contain %q", err.Error(), want)
	}
}

// 呼ぶたびに1秒進む時計
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// カテゴリ1件と在庫stockの品目1件を入れる
func seedItem(t *testing.T, store *memrepo.Store, code string, stock int64) model.Item {
	t.Helper()
	ctx := context.Background()

	cat, err := store.Categories().FindByName(ctx, "Electronics")
	if err != nil {
		cat, err = store.Categories().Create(ctx, model.Category{Name: "Electronics"})
		require.NoError(t, err)
	}

	it, err := store.Items().Create(ctx, model.Item{
		Code:         code,
		Name:         "Item " + code,
		CategoryID:   cat.ID,
		UnitPrice:    decimal.RequireFromString("9.99"),
		CurrentStock: stock,
		ReorderLevel: 10,
	})
	require.NoError(t, err)
	return it
}

func seedSupplier(t *testing.T, store *memrepo.Store, name string) model.Supplier {
	t.Helper()
	s, err := store.Suppliers().Create(context.Background(), model.Supplier{Name: name})
	require.NoError(t, err)
	return s
}

func stockOf(t *testing.T, store *memrepo.Store, id int64) int64 {
	t.Helper()
	it, err := store.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return it.CurrentStock
}

func txnCount(t *testing.T, store *memrepo.Store, id int64) int64 {
	t.Helper()
	n, err := store.Transactions().CountByItem(context.Background(), id)
	require.NoError(t, err)
	return n
}

func repoQuery(itemID int64) repo.TransactionListQuery {
	return repo.TransactionListQuery{Page: 1, Limit: 100, ItemID: &itemID}
}
