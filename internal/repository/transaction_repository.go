package repository

import (
	"context"
	"time"

	"inventory/internal/domain/model"
)

type TransactionListQuery struct {
	Page   int
	Limit  int
	Kind   model.TransactionKind // 空なら全種類
	ItemID *int64
	From   *time.Time // transaction_date >= From
	To     *time.Time // transaction_date <= To
}

// 取引種類（シード済みマスタ）
type TransactionTypeRepository interface {
	List(ctx context.Context) ([]model.TransactionType, error)
	FindByName(ctx context.Context, name model.TransactionKind) (model.TransactionType, error)
}

// 取引ログ。追記のみで、更新・削除は持たない。
type TransactionRepository interface {
	Create(ctx context.Context, t model.Transaction) (model.Transaction, error)
	// Item/Type/Supplierも読み込む
	FindByID(ctx context.Context, id int64) (model.Transaction, error)
	// 新しい順
	List(ctx context.Context, q TransactionListQuery) ([]model.Transaction, int64, error)
	CountByItem(ctx context.Context, itemID int64) (int64, error)
}
