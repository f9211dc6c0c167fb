package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 入出庫の種類
type TransactionKind string

const (
	KindStockIn    TransactionKind = "STOCK_IN"
	KindStockOut   TransactionKind = "STOCK_OUT"
	KindAdjustment TransactionKind = "ADJUSTMENT"
	KindReturn     TransactionKind = "RETURN"
)

// 種類の一覧（シード順）
var TransactionKinds = []TransactionKind{KindStockIn, KindStockOut, KindAdjustment, KindReturn}

func (k TransactionKind) Valid() bool {
	for _, v := range TransactionKinds {
		if v == k {
			return true
		}
	}
	return false
}

// 入庫系かどうか（在庫が増える種類）
func (k TransactionKind) Inbound() bool {
	return k == KindStockIn || k == KindReturn
}

type TransactionType struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        TransactionKind `gorm:"type:varchar(20);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
}

// 種類ごとの説明（マイグレーション時のシード）
var TransactionTypeSeeds = []TransactionType{
	{Name: KindStockIn, Description: "Stock received from supplier"},
	{Name: KindStockOut, Description: "Stock issued/sold"},
	{Name: KindAdjustment, Description: "Stock adjustment/correction"},
	{Name: KindReturn, Description: "Stock returned from customer"},
}

// 在庫移動の記録。作成後は更新も削除もしない（監査証跡）。
// Quantityは常に正、向きはStockBefore/StockAfterで分かる。
type Transaction struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	ItemID int64 `gorm:"not null;index" json:"item_id"`
	Item   *Item `gorm:"constraint:OnDelete:RESTRICT" json:"item,omitempty"`

	TypeID int64            `gorm:"not null;index" json:"type_id"`
	Type   *TransactionType `gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT" json:"type,omitempty"`

	Quantity  int64            `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`

	SupplierID *int64    `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`

	ReferenceNumber string `gorm:"type:varchar(100)" json:"reference_number"`
	Notes           string `gorm:"type:text" json:"notes"`

	StockBefore int64  `gorm:"not null" json:"stock_before"`
	StockAfter  int64  `gorm:"not null" json:"stock_after"`
	PostedBy    string `gorm:"type:varchar(255)" json:"posted_by"`

	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`
}

// 在庫の増減（符号付き）
func (t Transaction) Delta() int64 {
	return t.StockAfter - t.StockBefore
}

// 種類名（Typeが読み込まれていない場合は空）
func (t Transaction) Kind() TransactionKind {
	if t.Type == nil {
		return ""
	}
	return t.Type.Name
}

// 入庫金額（単価がある場合のみ）
func (t Transaction) TotalValue() *decimal.Decimal {
	if t.UnitPrice == nil {
		return nil
	}
	v := t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
	return &v
}
