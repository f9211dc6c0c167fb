package repository

import (
	"context"
	"time"

	"inventory/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

// 集計はSQLを直接書く（gormと同じ*sql.DBを共有）
type ReportSqlxRepository struct {
	db *sqlx.DB
}

func NewReportSqlxRepository(db *sqlx.DB) *ReportSqlxRepository {
	return &ReportSqlxRepository{db: db}
}

const statsQuery = `
SELECT
	COUNT(*)                                                   AS total_items,
	COUNT(*) FILTER (WHERE current_stock <= reorder_level)     AS low_stock_items,
	COUNT(*) FILTER (WHERE current_stock = 0)                  AS out_of_stock,
	COALESCE(SUM(current_stock), 0)                            AS total_units,
	COALESCE(SUM(current_stock * unit_price), 0)               AS total_value
FROM items`

func (r *ReportSqlxRepository) Stats(ctx context.Context) (model.InventoryStats, error) {
	var s model.InventoryStats
	if err := r.db.GetContext(ctx, &s, statsQuery); err != nil {
		return model.InventoryStats{}, err
	}
	return s, nil
}

const categorySummaryQuery = `
SELECT
	c.id                                           AS category_id,
	c.name                                         AS category_name,
	COUNT(i.id)                                    AS item_count,
	COALESCE(SUM(i.current_stock), 0)              AS total_units,
	COALESCE(SUM(i.current_stock * i.unit_price), 0) AS total_value
FROM categories c
LEFT JOIN items i ON i.category_id = c.id
GROUP BY c.id, c.name
ORDER BY c.name`

func (r *ReportSqlxRepository) CategorySummary(ctx context.Context) ([]model.CategorySummary, error) {
	rows := []model.CategorySummary{}
	if err := r.db.SelectContext(ctx, &rows, categorySummaryQuery); err != nil {
		return nil, err
	}
	return rows, nil
}

const movementSummaryQuery = `
SELECT
	tt.name                        AS kind,
	COUNT(t.id)                    AS txn_count,
	COALESCE(SUM(t.quantity), 0)   AS total_quantity
FROM transaction_types tt
LEFT JOIN transactions t
	ON t.type_id = tt.id
	AND ($1::timestamptz IS NULL OR t.transaction_date >= $1)
	AND ($2::timestamptz IS NULL OR t.transaction_date <= $2)
GROUP BY tt.id, tt.name
ORDER BY tt.id`

func (r *ReportSqlxRepository) MovementSummary(ctx context.Context, from, to *time.Time) ([]model.MovementSummary, error) {
	rows := []model.MovementSummary{}
	if err := r.db.SelectContext(ctx, &rows, movementSummaryQuery, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}
