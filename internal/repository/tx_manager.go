package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Items() ItemRepository
	Transactions() TransactionRepository
	TransactionTypes() TransactionTypeRepository
	Suppliers() SupplierRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全部rollbackされる。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
