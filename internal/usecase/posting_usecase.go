package usecase

import (
	"context"
	"errors"
	"math"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxReferenceLen = 100

// 入庫の入力
type StockInInput struct {
	ItemID          int64
	Quantity        int64
	UnitPrice       *decimal.Decimal
	SupplierID      *int64
	ReferenceNumber string
	Notes           string
	PostedBy        string
}

// 出庫の入力
type StockOutInput struct {
	ItemID          int64
	Quantity        int64
	ReferenceNumber string
	Notes           string
	PostedBy        string
}

// 棚卸調整の入力（実数を入れる）
type AdjustmentInput struct {
	ItemID          int64
	CountedStock    int64
	ReferenceNumber string
	Notes           string
	PostedBy        string
}

// 返品の入力
type ReturnInput struct {
	ItemID          int64
	Quantity        int64
	ReferenceNumber string
	Notes           string
	PostedBy        string
}

// 記帳後の品目と作成した取引
type PostingOutput struct {
	Item        model.Item
	Transaction model.Transaction
}

// 在庫の記帳。品目の在庫数と取引ログを1つのDBトランザクションで更新する。
type PostingUsecase struct {
	txm   repo.TransactionManager
	clock Clock
	log   *zap.Logger
}

// DI
func NewPostingUsecase(txm repo.TransactionManager, clock Clock, log *zap.Logger) *PostingUsecase {
	return &PostingUsecase{txm: txm, clock: clock, log: log}
}

// 記帳1件分
type posting struct {
	kind   model.TransactionKind
	itemID int64
	txn    model.Transaction
	// 現在の在庫から、記録する数量と新しい在庫数を決める
	apply func(current int64) (quantity int64, newStock int64, err error)
}

func (u *PostingUsecase) StockIn(ctx context.Context, in StockInInput) (PostingOutput, error) {
	if err := checkCommon(in.ItemID, in.Quantity, in.ReferenceNumber); err != nil {
		return PostingOutput{}, err
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return PostingOutput{}, validation("unit price must be >= 0")
	}
	if in.SupplierID != nil && *in.SupplierID <= 0 {
		return PostingOutput{}, validation("invalid supplier id")
	}

	return u.post(ctx, posting{
		kind:   model.KindStockIn,
		itemID: in.ItemID,
		txn: model.Transaction{
			UnitPrice:       in.UnitPrice,
			SupplierID:      in.SupplierID,
			ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
			Notes:           in.Notes,
			PostedBy:        in.PostedBy,
		},
		apply: func(current int64) (int64, int64, error) {
			return addStock(current, in.Quantity)
		},
	})
}

func (u *PostingUsecase) StockOut(ctx context.Context, in StockOutInput) (PostingOutput, error) {
	if err := checkCommon(in.ItemID, in.Quantity, in.ReferenceNumber); err != nil {
		return PostingOutput{}, err
	}

	return u.post(ctx, posting{
		kind:   model.KindStockOut,
		itemID: in.ItemID,
		txn: model.Transaction{
			ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
			Notes:           in.Notes,
			PostedBy:        in.PostedBy,
		},
		apply: func(current int64) (int64, int64, error) {
			if in.Quantity > current {
				u.log.Info("stock out rejected",
					zap.Int64("item_id", in.ItemID),
					zap.Int64("available", current),
					zap.Int64("requested", in.Quantity),
				)
				return 0, 0, insufficientStock(current, in.Quantity)
			}
			return in.Quantity, current - in.Quantity, nil
		},
	})
}

func (u *PostingUsecase) Adjust(ctx context.Context, in AdjustmentInput) (PostingOutput, error) {
	if in.ItemID <= 0 {
		return PostingOutput{}, validation("invalid item id")
	}
	if in.CountedStock < 0 {
		return PostingOutput{}, validation("counted stock must be >= 0")
	}
	if len(in.ReferenceNumber) > maxReferenceLen {
		return PostingOutput{}, validation("reference number too long")
	}

	return u.post(ctx, posting{
		kind:   model.KindAdjustment,
		itemID: in.ItemID,
		txn: model.Transaction{
			ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
			Notes:           in.Notes,
			PostedBy:        in.PostedBy,
		},
		apply: func(current int64) (int64, int64, error) {
			diff := in.CountedStock - current
			if diff == 0 {
				return 0, 0, validation("counted stock equals current stock (%d)", current)
			}
			if diff < 0 {
				diff = -diff
			}
			return diff, in.CountedStock, nil
		},
	})
}

func (u *PostingUsecase) Return(ctx context.Context, in ReturnInput) (PostingOutput, error) {
	if err := checkCommon(in.ItemID, in.Quantity, in.ReferenceNumber); err != nil {
		return PostingOutput{}, err
	}

	return u.post(ctx, posting{
		kind:   model.KindReturn,
		itemID: in.ItemID,
		txn: model.Transaction{
			ReferenceNumber: strings.TrimSpace(in.ReferenceNumber),
			Notes:           in.Notes,
			PostedBy:        in.PostedBy,
		},
		apply: func(current int64) (int64, int64, error) {
			return addStock(current, in.Quantity)
		},
	})
}

// 入庫系の加算。int64を超える数量は受け付けない
func addStock(current, quantity int64) (int64, int64, error) {
	if quantity > math.MaxInt64-current {
		return 0, 0, validation("quantity too large")
	}
	return quantity, current + quantity, nil
}

func checkCommon(itemID, quantity int64, ref string) error {
	if itemID <= 0 {
		return validation("invalid item id")
	}
	if quantity <= 0 {
		return validation("quantity must be > 0")
	}
	if len(ref) > maxReferenceLen {
		return validation("reference number too long")
	}
	return nil
}

// 記帳の本体。順番: 品目の存在 → 残高 → 取引種類 → 仕入先 → 書き込み。
// どこで失敗してもrollbackされ、在庫も取引も変わらない。
func (u *PostingUsecase) post(ctx context.Context, p posting) (PostingOutput, error) {
	var out PostingOutput

	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		//行ロックを取って読む
		item, err := r.Items().FindByIDForUpdate(ctx, p.itemID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Item")
		}
		if err != nil {
			return err
		}

		qty, newStock, err := p.apply(item.CurrentStock)
		if err != nil {
			return err
		}

		tt, err := r.TransactionTypes().FindByName(ctx, p.kind)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Transaction type " + string(p.kind))
		}
		if err != nil {
			return err
		}

		if p.txn.SupplierID != nil {
			_, err := r.Suppliers().FindByID(ctx, *p.txn.SupplierID)
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("Supplier")
			}
			if err != nil {
				return err
			}
		}

		txn := p.txn
		txn.ItemID = item.ID
		txn.TypeID = tt.ID
		txn.Quantity = qty
		txn.StockBefore = item.CurrentStock
		txn.StockAfter = newStock
		txn.TransactionDate = u.clock.Now()

		created, err := r.Transactions().Create(ctx, txn)
		if err != nil {
			return err
		}
		if err := r.Items().SetStock(ctx, item.ID, newStock); err != nil {
			return err
		}

		updated, err := r.Items().FindByID(ctx, item.ID)
		if err != nil {
			return err
		}

		created.Type = &tt
		out = PostingOutput{Item: updated, Transaction: created}
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			return PostingOutput{}, he
		}
		u.log.Error("posting failed",
			zap.String("kind", string(p.kind)),
			zap.Int64("item_id", p.itemID),
			zap.Error(err),
		)
		return PostingOutput{}, dbError()
	}

	u.log.Info("posted",
		zap.String("kind", string(p.kind)),
		zap.Int64("item_id", out.Item.ID),
		zap.Int64("transaction_id", out.Transaction.ID),
		zap.Int64("quantity", out.Transaction.Quantity),
		zap.Int64("stock_before", out.Transaction.StockBefore),
		zap.Int64("stock_after", out.Transaction.StockAfter),
	)
	return out, nil
}
