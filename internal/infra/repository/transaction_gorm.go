package repository

import (
	"context"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

type TransactionTypeGormRepository struct {
	db *gorm.DB
}

func NewTransactionTypeGormRepository(db *gorm.DB) *TransactionTypeGormRepository {
	return &TransactionTypeGormRepository{db: db}
}

func (r *TransactionTypeGormRepository) List(ctx context.Context) ([]model.TransactionType, error) {
	var ts []model.TransactionType
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *TransactionTypeGormRepository) FindByName(ctx context.Context, name model.TransactionKind) (model.TransactionType, error) {
	var t model.TransactionType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return model.TransactionType{}, translate(err)
	}
	return t, nil
}

// 取引ログ（追記のみ）
type TransactionGormRepository struct {
	db *gorm.DB
}

func NewTransactionGormRepository(db *gorm.DB) *TransactionGormRepository {
	return &TransactionGormRepository{db: db}
}

func (r *TransactionGormRepository) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	t.Item, t.Type, t.Supplier = nil, nil, nil
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Transaction{}, translate(err)
	}
	return t, nil
}

func (r *TransactionGormRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Item").Preload("Type").Preload("Supplier").
		First(&t, id).Error
	if err != nil {
		return model.Transaction{}, translate(err)
	}
	return t, nil
}

func (r *TransactionGormRepository) List(ctx context.Context, q repo.TransactionListQuery) ([]model.Transaction, int64, error) {
	var ts []model.Transaction
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Transaction{})
	if q.Kind != "" {
		tx = tx.Joins("JOIN transaction_types ON transaction_types.id = transactions.type_id").
			Where("transaction_types.name = ?", q.Kind)
	}
	if q.ItemID != nil {
		tx = tx.Where("transactions.item_id = ?", *q.ItemID)
	}
	if q.From != nil {
		tx = tx.Where("transactions.transaction_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("transactions.transaction_date <= ?", *q.To)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Transaction{}, 0, err
	}

	err := tx.Preload("Item").Preload("Type").Preload("Supplier").
		Order("transactions.transaction_date desc").Order("transactions.id desc").
		Offset(offsetOf(q.Page, q.Limit)).Limit(q.Limit).
		Find(&ts).Error
	if err != nil {
		return []model.Transaction{}, 0, err
	}
	return ts, total, nil
}

func (r *TransactionGormRepository) CountByItem(ctx context.Context, itemID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("item_id = ?", itemID).Count(&n).Error
	return n, err
}
