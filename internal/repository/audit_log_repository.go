package repository

import (
	"context"
	"time"

	"inventory/internal/domain/model"
)

// 監査ログの絞り込み（ゼロ値の項目は条件にしない）
type AuditLogFilter struct {
	Actor  string
	Action model.AuditAction
	ItemID *int64
	// 作成日時の範囲（両端を含む）
	Since *time.Time
	Until *time.Time
	Limit  int
	Offset int
}

// 品目マスタ変更の監査ログ
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
