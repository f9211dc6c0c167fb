package repository

import (
	"context"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

type LocationGormRepository struct {
	db *gorm.DB
}

func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

func (r *LocationGormRepository) List(ctx context.Context) ([]model.Location, error) {
	var ls []model.Location
	err := r.db.WithContext(ctx).
		Order("warehouse asc").Order("aisle asc").Order("shelf asc").Order("bin asc").
		Find(&ls).Error
	if err != nil {
		return nil, err
	}
	return ls, nil
}

func (r *LocationGormRepository) FindByID(ctx context.Context, id int64) (model.Location, error) {
	var l model.Location
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return model.Location{}, translate(err)
	}
	return l, nil
}

func (r *LocationGormRepository) Create(ctx context.Context, l model.Location) (model.Location, error) {
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return model.Location{}, translate(err)
	}
	return l, nil
}

func (r *LocationGormRepository) Update(ctx context.Context, l model.Location) error {
	res := r.db.WithContext(ctx).Model(&model.Location{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"warehouse": l.Warehouse,
		"aisle":     l.Aisle,
		"shelf":     l.Shelf,
		"bin":       l.Bin,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *LocationGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Location{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *LocationGormRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("location_id = ?", id).Count(&n).Error
	return n, err
}
