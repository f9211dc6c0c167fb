package repository

import (
	"context"

	"inventory/internal/domain/model"
)

// カテゴリの保存・取得
type CategoryRepository interface {
	// 名前順
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error

	// このカテゴリを参照している品目数
	CountItems(ctx context.Context, id int64) (int64, error)
}
