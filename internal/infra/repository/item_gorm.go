package repository

import (
	"context"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

func (r *ItemGormRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Supplier").Preload("Location")
}

// 検索/カテゴリ/ページング付きで返す（名前順）。
func (r *ItemGormRepository) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Item{})

	// 名前かコードの部分一致
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Item{}, 0, err
	}

	err := tx.Preload("Category").
		Order("name asc").Order("id asc").
		Offset(offsetOf(q.Page, q.Limit)).Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return []model.Item{}, 0, err
	}
	return items, total, nil
}

func (r *ItemGormRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.withRefs(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// IDで品目を取得
func (r *ItemGormRepository) FindByID(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	if err := r.withRefs(ctx).First(&it, id).Error; err != nil {
		return model.Item{}, translate(err)
	}
	return it, nil
}

// SELECT ... FOR UPDATE（同じ品目への記帳を直列化する）
func (r *ItemGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&it, id).Error
	if err != nil {
		return model.Item{}, translate(err)
	}
	return it, nil
}

func (r *ItemGormRepository) FindByCode(ctx context.Context, code string) (model.Item, error) {
	var it model.Item
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&it).Error; err != nil {
		return model.Item{}, translate(err)
	}
	return it, nil
}

// 品目の作成（初期在庫を含む）
func (r *ItemGormRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	it.Category, it.Supplier, it.Location = nil, nil, nil
	if err := r.db.WithContext(ctx).Create(&it).Error; err != nil {
		return model.Item{}, translate(err)
	}
	return it, nil
}

// 品目の更新（current_stockは触らない）
func (r *ItemGormRepository) Update(ctx context.Context, it model.Item) error {
	res := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", it.ID).Updates(map[string]interface{}{
		"code":          it.Code,
		"name":          it.Name,
		"description":   it.Description,
		"category_id":   it.CategoryID,
		"supplier_id":   it.SupplierID,
		"location_id":   it.LocationID,
		"unit_price":    it.UnitPrice,
		"reorder_level": it.ReorderLevel,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ItemGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の現在値を設定
func (r *ItemGormRepository) SetStock(ctx context.Context, id int64, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", id).
		Update("current_stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ItemGormRepository) ListStockLevels(ctx context.Context, categoryID *int64) ([]model.Item, error) {
	tx := r.withRefs(ctx)
	if categoryID != nil {
		tx = tx.Where("category_id = ?", *categoryID)
	}

	var items []model.Item
	if err := tx.Order("current_stock asc").Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemGormRepository) ListLowStock(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.withRefs(ctx).
		Where("current_stock <= reorder_level").
		Order("current_stock asc").Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
