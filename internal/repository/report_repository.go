package repository

import (
	"context"
	"time"

	"inventory/internal/domain/model"
)

// 集計クエリ
type ReportRepository interface {
	Stats(ctx context.Context) (model.InventoryStats, error)
	CategorySummary(ctx context.Context) ([]model.CategorySummary, error)
	// 期間内の種類別集計（from/toはnilなら無制限）
	MovementSummary(ctx context.Context, from, to *time.Time) ([]model.MovementSummary, error)
}
