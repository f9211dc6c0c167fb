package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 在庫ステータス（画面のバッジ色）
type StockStatus string

const (
	StockStatusOut     StockStatus = "danger"
	StockStatusLow     StockStatus = "warning"
	StockStatusHealthy StockStatus = "success"
)

const DefaultReorderLevel int64 = 10

// 在庫品目。CurrentStockは常に0以上。
// CurrentStockを変えてよいのは記帳（posting）だけ。
type Item struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CategoryID int64     `gorm:"not null;index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`

	SupplierID *int64    `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`

	LocationID *int64    `gorm:"index" json:"location_id"`
	Location   *Location `gorm:"constraint:OnDelete:RESTRICT" json:"location,omitempty"`

	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unit_price"`
	CurrentStock int64           `gorm:"not null;default:0;check:current_stock >= 0" json:"current_stock"`
	ReorderLevel int64           `gorm:"not null;default:10;check:reorder_level >= 0" json:"reorder_level"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 発注点以下なら在庫少
func (i Item) IsLowStock() bool {
	return i.CurrentStock <= i.ReorderLevel
}

func (i Item) StockStatus() StockStatus {
	switch {
	case i.CurrentStock == 0:
		return StockStatusOut
	case i.IsLowStock():
		return StockStatusLow
	default:
		return StockStatusHealthy
	}
}

// 在庫金額（単価×在庫数）
func (i Item) StockValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.CurrentStock))
}
