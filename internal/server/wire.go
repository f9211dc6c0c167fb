package server

import (
	"inventory/internal/handler"
	repo "inventory/internal/repository"
	"inventory/internal/usecase"
	auth "inventory/internal/usecase/auth_usecase"

	"go.uber.org/zap"
)

// Repos はusecaseに渡すリポジトリ一式（本番はgorm/sqlx、テストはmemrepo）
type Repos struct {
	Categories       repo.CategoryRepository
	Suppliers        repo.SupplierRepository
	Locations        repo.LocationRepository
	Items            repo.ItemRepository
	TransactionTypes repo.TransactionTypeRepository
	Transactions     repo.TransactionRepository
	Reports          repo.ReportRepository
	TxManager        repo.TransactionManager
}

type HandlerConfig struct {
	ItemsPerPage int
	CookieSecure bool
}

// NewHandlers はusecaseとhandlerを組み立てる
func NewHandlers(r Repos, login *auth.LoginUsecase, clock usecase.Clock, cfg HandlerConfig, log *zap.Logger) Handlers {
	categories := usecase.NewCategoryUsecase(r.Categories, log)
	suppliers := usecase.NewSupplierUsecase(r.Suppliers, log)
	locations := usecase.NewLocationUsecase(r.Locations, log)
	items := usecase.NewItemUsecase(r.Items, r.Categories, r.Suppliers, r.Locations, r.Transactions, r.TxManager, clock, log)
	txns := usecase.NewTransactionUsecase(r.Transactions, r.TransactionTypes, log)
	posting := usecase.NewPostingUsecase(r.TxManager, clock, log)
	reports := usecase.NewReportUsecase(r.Reports, r.Items, r.Transactions, log)

	return Handlers{
		Auth:        handler.NewAuthHandler(login, cfg.CookieSecure, log),
		Item:        handler.NewItemHandler(items, categories, suppliers, locations, cfg.ItemsPerPage),
		Category:    handler.NewCategoryHandler(categories),
		Supplier:    handler.NewSupplierHandler(suppliers),
		Location:    handler.NewLocationHandler(locations),
		Transaction: handler.NewTransactionHandler(txns, posting, items, suppliers, cfg.ItemsPerPage),
		Report:      handler.NewReportHandler(reports, categories),
		API:         handler.NewAPIHandler(items, suppliers, txns, reports, posting),
	}
}
