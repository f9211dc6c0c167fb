package repository

import (
	"context"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

type SupplierGormRepository struct {
	db *gorm.DB
}

func NewSupplierGormRepository(db *gorm.DB) *SupplierGormRepository {
	return &SupplierGormRepository{db: db}
}

func (r *SupplierGormRepository) List(ctx context.Context) ([]model.Supplier, error) {
	var ss []model.Supplier
	if err := r.db.WithContext(ctx).Order("name asc").Find(&ss).Error; err != nil {
		return nil, err
	}
	return ss, nil
}

func (r *SupplierGormRepository) FindByID(ctx context.Context, id int64) (model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return model.Supplier{}, translate(err)
	}
	return s, nil
}

func (r *SupplierGormRepository) FindByName(ctx context.Context, name string) (model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return model.Supplier{}, translate(err)
	}
	return s, nil
}

func (r *SupplierGormRepository) Create(ctx context.Context, s model.Supplier) (model.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Supplier{}, translate(err)
	}
	return s, nil
}

func (r *SupplierGormRepository) Update(ctx context.Context, s model.Supplier) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":           s.Name,
		"contact_person": s.ContactPerson,
		"email":          s.Email,
		"phone":          s.Phone,
		"address":        s.Address,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Supplier{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SupplierGormRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("supplier_id = ?", id).Count(&n).Error
	return n, err
}

func (r *SupplierGormRepository) CountTransactions(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("supplier_id = ?", id).Count(&n).Error
	return n, err
}
