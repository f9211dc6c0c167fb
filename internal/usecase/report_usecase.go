package usecase

import (
	"context"
	"time"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

const (
	movementHistoryPerPage = 50
	dashboardRecentLimit   = 10
	dashboardLowStockLimit = 5
)

type ReportUsecase struct {
	reports repo.ReportRepository
	items   repo.ItemRepository
	txns    repo.TransactionRepository
	log     *zap.Logger
}

func NewReportUsecase(
	reports repo.ReportRepository,
	items repo.ItemRepository,
	txns repo.TransactionRepository,
	log *zap.Logger,
) *ReportUsecase {
	return &ReportUsecase{reports: reports, items: items, txns: txns, log: log}
}

type DashboardOutput struct {
	Stats              model.InventoryStats
	LowStockItems      []model.Item
	RecentTransactions []model.Transaction
}

func (u *ReportUsecase) Dashboard(ctx context.Context) (DashboardOutput, error) {
	stats, err := u.reports.Stats(ctx)
	if err != nil {
		return DashboardOutput{}, mapRepoError(u.log, "dashboard stats", err)
	}
	low, err := u.items.ListLowStock(ctx)
	if err != nil {
		return DashboardOutput{}, mapRepoError(u.log, "dashboard low stock", err)
	}
	if len(low) > dashboardLowStockLimit {
		low = low[:dashboardLowStockLimit]
	}
	recent, _, err := u.txns.List(ctx, repo.TransactionListQuery{Page: 1, Limit: dashboardRecentLimit})
	if err != nil {
		return DashboardOutput{}, mapRepoError(u.log, "dashboard recent transactions", err)
	}
	return DashboardOutput{Stats: stats, LowStockItems: low, RecentTransactions: recent}, nil
}

func (u *ReportUsecase) Stats(ctx context.Context) (model.InventoryStats, error) {
	stats, err := u.reports.Stats(ctx)
	if err != nil {
		return model.InventoryStats{}, mapRepoError(u.log, "stats", err)
	}
	return stats, nil
}

// 在庫の少ない順
func (u *ReportUsecase) StockLevels(ctx context.Context, categoryID *int64) ([]model.Item, error) {
	items, err := u.items.ListStockLevels(ctx, categoryID)
	if err != nil {
		return nil, mapRepoError(u.log, "stock levels", err)
	}
	return items, nil
}

func (u *ReportUsecase) LowStock(ctx context.Context) ([]model.Item, error) {
	items, err := u.items.ListLowStock(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "low stock", err)
	}
	return items, nil
}

type MovementHistoryOutput struct {
	Transactions []model.Transaction
	Summary      []model.MovementSummary
	PageInfo
}

// 移動履歴（50件ずつ）と期間内の種類別集計
func (u *ReportUsecase) MovementHistory(ctx context.Context, page int, from, to *time.Time) (MovementHistoryOutput, error) {
	if page < 1 {
		return MovementHistoryOutput{}, validation("invalid page")
	}
	if from != nil && to != nil && from.After(*to) {
		return MovementHistoryOutput{}, validation("from must be before to")
	}

	ts, total, err := u.txns.List(ctx, repo.TransactionListQuery{
		Page:  page,
		Limit: movementHistoryPerPage,
		From:  from,
		To:    to,
	})
	if err != nil {
		return MovementHistoryOutput{}, mapRepoError(u.log, "movement history", err)
	}
	summary, err := u.reports.MovementSummary(ctx, from, to)
	if err != nil {
		return MovementHistoryOutput{}, mapRepoError(u.log, "movement summary", err)
	}
	return MovementHistoryOutput{
		Transactions: ts,
		Summary:      summary,
		PageInfo:     newPageInfo(page, movementHistoryPerPage, total),
	}, nil
}

func (u *ReportUsecase) CategorySummary(ctx context.Context) ([]model.CategorySummary, error) {
	rows, err := u.reports.CategorySummary(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "category summary", err)
	}
	return rows, nil
}
