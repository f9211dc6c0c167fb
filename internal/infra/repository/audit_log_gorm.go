package repository

import (
	"context"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if f.Actor != "" {
		tx = tx.Where("actor = ?", f.Actor)
	}
	if f.Action != "" {
		tx = tx.Where("action = ?", f.Action)
	}
	if f.ItemID != nil {
		tx = tx.Where("resource_type = ? AND resource_id = ?", model.AuditResourceItem, *f.ItemID)
	}
	if f.Since != nil {
		tx = tx.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		tx = tx.Where("created_at <= ?", *f.Until)
	}

	limit := f.Limit
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	logs := []model.AuditLog{}
	err := tx.Order("created_at desc").Order("id desc").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

var _ repo.AuditLogRepository = (*AuditLogGormRepository)(nil)
