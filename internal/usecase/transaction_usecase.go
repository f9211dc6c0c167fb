package usecase

import (
	"context"
	"errors"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"go.uber.org/zap"
)

// 取引ログの参照（作成はPostingUsecaseだけ）
type TransactionUsecase struct {
	txns     repo.TransactionRepository
	txnTypes repo.TransactionTypeRepository
	log      *zap.Logger
}

func NewTransactionUsecase(txns repo.TransactionRepository, txnTypes repo.TransactionTypeRepository, log *zap.Logger) *TransactionUsecase {
	return &TransactionUsecase{txns: txns, txnTypes: txnTypes, log: log}
}

type ListTransactionsInput struct {
	Page   int
	Limit  int
	Kind   model.TransactionKind
	ItemID *int64
}

type TransactionListOutput struct {
	Transactions []model.Transaction
	PageInfo
}

func (u *TransactionUsecase) List(ctx context.Context, in ListTransactionsInput) (TransactionListOutput, error) {
	if err := checkPage(in.Page, in.Limit); err != nil {
		return TransactionListOutput{}, err
	}
	if in.Kind != "" && !in.Kind.Valid() {
		return TransactionListOutput{}, validation("invalid transaction type %s", in.Kind)
	}

	ts, total, err := u.txns.List(ctx, repo.TransactionListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		Kind:   in.Kind,
		ItemID: in.ItemID,
	})
	if err != nil {
		return TransactionListOutput{}, mapRepoError(u.log, "list transactions", err)
	}
	return TransactionListOutput{Transactions: ts, PageInfo: newPageInfo(in.Page, in.Limit, total)}, nil
}

func (u *TransactionUsecase) Get(ctx context.Context, id int64) (model.Transaction, error) {
	if id <= 0 {
		return model.Transaction{}, validation("invalid transaction id")
	}
	t, err := u.txns.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Transaction{}, notFound("Transaction")
	}
	if err != nil {
		return model.Transaction{}, mapRepoError(u.log, "find transaction", err)
	}
	return t, nil
}

// 絞り込み用の種類一覧
func (u *TransactionUsecase) Types(ctx context.Context) ([]model.TransactionType, error) {
	ts, err := u.txnTypes.List(ctx)
	if err != nil {
		return nil, mapRepoError(u.log, "list transaction types", err)
	}
	return ts, nil
}
