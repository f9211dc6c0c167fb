package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"inventory/internal/config"
	"inventory/internal/domain/model"
	"inventory/internal/infra/db"
	infraRepo "inventory/internal/infra/repository"
	repo "inventory/internal/repository"
	"inventory/internal/usecase"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// TEST_DATABASE_DSN が無ければスキップ（テーブルは作り直す）
func openTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gormDB, err := db.Connect(config.Config{DatabaseURL: dsn, MaxOpenConns: 10, MaxIdleConns: 2})
	require.NoError(t, err)
	require.NoError(t, db.Reset(gormDB))

	//検証用は別接続
	raw, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = raw.Close()
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB, raw
}

func seedItem(t *testing.T, gormDB *gorm.DB, code string, stock int64) model.Item {
	t.Helper()
	ctx := context.Background()
	cats := infraRepo.NewCategoryGormRepository(gormDB)

	cat, err := cats.FindByName(ctx, "Electronics")
	if errors.Is(err, repo.ErrNotFound) {
		cat, err = cats.Create(ctx, model.Category{Name: "Electronics"})
	}
	require.NoError(t, err)

	it, err := infraRepo.NewItemGormRepository(gormDB).Create(ctx, model.Item{
		Code:         code,
		Name:         "Item " + code,
		CategoryID:   cat.ID,
		UnitPrice:    decimal.RequireFromString("2.50"),
		CurrentStock: stock,
		ReorderLevel: 10,
	})
	require.NoError(t, err)
	return it
}

func countRows(t *testing.T, raw *sql.DB, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, raw.QueryRow(query, args...).Scan(&n))
	return n
}

func TestPostgres_PostingCommitsAndRollsBack(t *testing.T) {
	gormDB, raw := openTestDB(t)
	ctx := context.Background()
	it := seedItem(t, gormDB, "ELEC-001", 25)
	uc := usecase.NewPostingUsecase(infraRepo.NewTxManagerGorm(gormDB), usecase.SystemClock{}, zaptest.NewLogger(t))

	out, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: it.ID, Quantity: 10, PostedBy: "ops@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(35), out.Item.CurrentStock)

	_, err = uc.StockOut(ctx, usecase.StockOutInput{ItemID: it.ID, Quantity: 100})
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)

	assert.Equal(t, int64(35), countRows(t, raw, "SELECT current_stock FROM items WHERE id = $1", it.ID))
	assert.Equal(t, int64(1), countRows(t, raw, "SELECT COUNT(*) FROM transactions WHERE item_id = $1", it.ID))

	//種類が無ければ記帳は全部戻る
	require.NoError(t, gormDB.Exec("DELETE FROM transaction_types WHERE name = ?", model.KindReturn).Error)
	_, err = uc.Return(ctx, usecase.ReturnInput{ItemID: it.ID, Quantity: 1})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	assert.Equal(t, int64(35), countRows(t, raw, "SELECT current_stock FROM items WHERE id = $1", it.ID))
}

// 行ロックで同じ品目への出庫が直列になる
func TestPostgres_ConcurrentStockOutNeverOversells(t *testing.T) {
	gormDB, raw := openTestDB(t)
	it := seedItem(t, gormDB, "ELEC-001", 5)
	uc := usecase.NewPostingUsecase(infraRepo.NewTxManagerGorm(gormDB), usecase.SystemClock{}, zaptest.NewLogger(t))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.StockOut(context.Background(), usecase.StockOutInput{ItemID: it.ID, Quantity: 1})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, int64(0), countRows(t, raw, "SELECT current_stock FROM items WHERE id = $1", it.ID))
	assert.Equal(t, int64(5), countRows(t, raw, "SELECT COUNT(*) FROM transactions WHERE item_id = $1", it.ID))
}

func TestPostgres_ConstraintErrors(t *testing.T) {
	gormDB, _ := openTestDB(t)
	ctx := context.Background()
	it := seedItem(t, gormDB, "ELEC-001", 1)

	_, err := infraRepo.NewItemGormRepository(gormDB).Create(ctx, model.Item{Code: "ELEC-001", Name: "dup", CategoryID: it.CategoryID})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	err = infraRepo.NewCategoryGormRepository(gormDB).Delete(ctx, it.CategoryID)
	assert.ErrorIs(t, err, repo.ErrReferenced)

	_, err = infraRepo.NewItemGormRepository(gormDB).FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestPostgres_Reports(t *testing.T) {
	gormDB, _ := openTestDB(t)
	ctx := context.Background()
	low := seedItem(t, gormDB, "LOW-001", 2)
	seedItem(t, gormDB, "OK-001", 40)
	uc := usecase.NewPostingUsecase(infraRepo.NewTxManagerGorm(gormDB), usecase.SystemClock{}, zaptest.NewLogger(t))
	_, err := uc.StockIn(ctx, usecase.StockInInput{ItemID: low.ID, Quantity: 3})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	reports := infraRepo.NewReportSqlxRepository(sqlx.NewDb(sqlDB, "pgx"))

	stats, err := reports.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.Equal(t, int64(1), stats.LowStockItems)
	assert.Equal(t, int64(45), stats.TotalUnits)
	assert.True(t, decimal.RequireFromString("112.50").Equal(stats.TotalValue))

	summary, err := reports.CategorySummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ItemCount)

	moves, err := reports.MovementSummary(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, moves, len(model.TransactionKinds))
	assert.Equal(t, model.KindStockIn, moves[0].Kind)
	assert.Equal(t, int64(1), moves[0].Count)
	assert.Equal(t, int64(3), moves[0].TotalQuantity)
}
