package repository

import (
	"context"

	"inventory/internal/domain/model"
)

// 一覧検索
type ItemListQuery struct {
	Page       int
	Limit      int
	Search     string // 名前・コードの部分一致
	CategoryID *int64
}

// 品目（在庫台帳）の永続化
type ItemRepository interface {
	List(ctx context.Context, q ItemListQuery) ([]model.Item, int64, error)
	// 全件（名前順）。選択肢やAPI用。
	ListAll(ctx context.Context) ([]model.Item, error)

	// Category/Supplier/Locationも読み込む
	FindByID(ctx context.Context, id int64) (model.Item, error)
	// トランザクション内で行ロックを取って読む
	FindByIDForUpdate(ctx context.Context, id int64) (model.Item, error)
	FindByCode(ctx context.Context, code string) (model.Item, error)

	Create(ctx context.Context, it model.Item) (model.Item, error)
	// マスタ項目だけ更新する（在庫数は変えない）
	Update(ctx context.Context, it model.Item) error
	Delete(ctx context.Context, id int64) error

	// 在庫の現在値を設定（記帳からのみ呼ぶ）
	SetStock(ctx context.Context, id int64, newStock int64) error

	// 在庫数の少ない順。categoryIDで絞り込み可。
	ListStockLevels(ctx context.Context, categoryID *int64) ([]model.Item, error)
	// current_stock <= reorder_level
	ListLowStock(ctx context.Context) ([]model.Item, error)
}
