package repository

import (
	"context"

	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	items     repo.ItemRepository
	txns      repo.TransactionRepository
	txnTypes  repo.TransactionTypeRepository
	suppliers repo.SupplierRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Items() repo.ItemRepository                       { return r.items }
func (r *txReposGorm) Transactions() repo.TransactionRepository         { return r.txns }
func (r *txReposGorm) TransactionTypes() repo.TransactionTypeRepository { return r.txnTypes }
func (r *txReposGorm) Suppliers() repo.SupplierRepository               { return r.suppliers }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository               { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			items:     NewItemGormRepository(tx),
			txns:      NewTransactionGormRepository(tx),
			txnTypes:  NewTransactionTypeGormRepository(tx),
			suppliers: NewSupplierGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
