package repository

import (
	"context"

	"inventory/internal/domain/model"
)

// 仕入先の保存・取得
type SupplierRepository interface {
	List(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id int64) (model.Supplier, error)
	FindByName(ctx context.Context, name string) (model.Supplier, error)
	Create(ctx context.Context, s model.Supplier) (model.Supplier, error)
	Update(ctx context.Context, s model.Supplier) error
	Delete(ctx context.Context, id int64) error

	// 参照チェック（品目・取引の両方）
	CountItems(ctx context.Context, id int64) (int64, error)
	CountTransactions(ctx context.Context, id int64) (int64, error)
}
