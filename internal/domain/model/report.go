package model

import "github.com/shopspring/decimal"

// ダッシュボード用の集計
type InventoryStats struct {
	TotalItems    int64           `db:"total_items" json:"total_items"`
	LowStockItems int64           `db:"low_stock_items" json:"low_stock_items"`
	OutOfStock    int64           `db:"out_of_stock" json:"out_of_stock"`
	TotalUnits    int64           `db:"total_units" json:"total_units"`
	TotalValue    decimal.Decimal `db:"total_value" json:"total_value"`
}

// カテゴリ別の在庫集計
type CategorySummary struct {
	CategoryID   int64           `db:"category_id" json:"category_id"`
	CategoryName string          `db:"category_name" json:"category_name"`
	ItemCount    int64           `db:"item_count" json:"item_count"`
	TotalUnits   int64           `db:"total_units" json:"total_units"`
	TotalValue   decimal.Decimal `db:"total_value" json:"total_value"`
}

// 種類別の移動集計
type MovementSummary struct {
	Kind          TransactionKind `db:"kind" json:"kind"`
	Count         int64           `db:"txn_count" json:"count"`
	TotalQuantity int64           `db:"total_quantity" json:"total_quantity"`
}
