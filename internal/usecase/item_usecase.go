package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 詳細画面に出す直近の取引数
const recentTransactionsLimit = 10

type ItemUsecase struct {
	items      repo.ItemRepository
	categories repo.CategoryRepository
	suppliers  repo.SupplierRepository
	locations  repo.LocationRepository
	txns       repo.TransactionRepository
	txm        repo.TransactionManager
	clock      Clock
	log        *zap.Logger
}

// DI
func NewItemUsecase(
	items repo.ItemRepository,
	categories repo.CategoryRepository,
	suppliers repo.SupplierRepository,
	locations repo.LocationRepository,
	txns repo.TransactionRepository,
	txm repo.TransactionManager,
	clock Clock,
	log *zap.Logger,
) *ItemUsecase {
	return &ItemUsecase{
		items:      items,
		categories: categories,
		suppliers:  suppliers,
		locations:  locations,
		txns:       txns,
		txm:        txm,
		clock:      clock,
		log:        log,
	}
}

// GET /items の入力
type ListItemsInput struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *int64
}

type ItemListOutput struct {
	Items []model.Item
	PageInfo
}

func (u *ItemUsecase) List(ctx context.Context, in ListItemsInput) (ItemListOutput, error) {
	if err := checkPage(in.Page, in.Limit); err != nil {
		return ItemListOutput{}, err
	}
	if len(in.Search) > 100 {
		return ItemListOutput{}, validation("search too long")
	}

	items, total, err := u.items.List(ctx, repo.ItemListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
	})
	if err != nil {
		u.log.Error("list items", zap.Error(err))
		return ItemListOutput{}, dbError()
	}
	return ItemListOutput{Items: items, PageInfo: newPageInfo(in.Page, in.Limit, total)}, nil
}

// 選択肢・API用の全件
func (u *ItemUsecase) ListAll(ctx context.Context) ([]model.Item, error) {
	items, err := u.items.ListAll(ctx)
	if err != nil {
		u.log.Error("list all items", zap.Error(err))
		return nil, dbError()
	}
	return items, nil
}

func (u *ItemUsecase) Get(ctx context.Context, id int64) (model.Item, error) {
	if id <= 0 {
		return model.Item{}, validation("invalid item id")
	}
	it, err := u.items.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, notFound("Item")
	}
	if err != nil {
		u.log.Error("find item", zap.Int64("item_id", id), zap.Error(err))
		return model.Item{}, dbError()
	}
	return it, nil
}

type ItemDetailOutput struct {
	Item               model.Item
	RecentTransactions []model.Transaction
}

// 品目と直近の取引
func (u *ItemUsecase) Detail(ctx context.Context, id int64) (ItemDetailOutput, error) {
	it, err := u.Get(ctx, id)
	if err != nil {
		return ItemDetailOutput{}, err
	}

	txns, _, err := u.txns.List(ctx, repo.TransactionListQuery{
		Page:   1,
		Limit:  recentTransactionsLimit,
		ItemID: &it.ID,
	})
	if err != nil {
		u.log.Error("list item transactions", zap.Int64("item_id", id), zap.Error(err))
		return ItemDetailOutput{}, dbError()
	}
	return ItemDetailOutput{Item: it, RecentTransactions: txns}, nil
}

// 作成・更新の入力。InitialStockは作成時だけ使う。
type ItemInput struct {
	Code         string
	Name         string
	Description  string
	CategoryID   int64
	SupplierID   *int64
	LocationID   *int64
	UnitPrice    decimal.Decimal
	InitialStock int64
	ReorderLevel *int64
}

func (in ItemInput) normalize() ItemInput {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func validateItemInput(in ItemInput) error {
	if in.Code == "" {
		return validation("item code required")
	}
	if len(in.Code) > 50 {
		return validation("item code too long")
	}
	if in.Name == "" {
		return validation("item name required")
	}
	if len(in.Name) > 200 {
		return validation("item name too long")
	}
	if in.CategoryID <= 0 {
		return validation("category required")
	}
	if in.UnitPrice.IsNegative() {
		return validation("unit price must be >= 0")
	}
	if in.InitialStock < 0 {
		return validation("stock must be >= 0")
	}
	if in.ReorderLevel != nil && *in.ReorderLevel < 0 {
		return validation("reorder level must be >= 0")
	}
	return nil
}

// 参照先（カテゴリ・仕入先・場所）の存在確認
func (u *ItemUsecase) checkRefs(ctx context.Context, in ItemInput) error {
	if _, err := u.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return validation("category %d does not exist", in.CategoryID)
		}
		return err
	}
	if in.SupplierID != nil {
		if _, err := u.suppliers.FindByID(ctx, *in.SupplierID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return validation("supplier %d does not exist", *in.SupplierID)
			}
			return err
		}
	}
	if in.LocationID != nil {
		if _, err := u.locations.FindByID(ctx, *in.LocationID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return validation("location %d does not exist", *in.LocationID)
			}
			return err
		}
	}
	return nil
}

// コードの重複確認（selfIDは自分自身を除くため）
func (u *ItemUsecase) checkCodeUnique(ctx context.Context, code string, selfID int64) error {
	existing, err := u.items.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return validation("Item code %s already exists", code)
	}
	return nil
}

func (u *ItemUsecase) Create(ctx context.Context, actor string, in ItemInput) (model.Item, error) {
	in = in.normalize()
	if err := validateItemInput(in); err != nil {
		return model.Item{}, err
	}
	if err := u.checkRefs(ctx, in); err != nil {
		return model.Item{}, u.fail("create item", err)
	}
	if err := u.checkCodeUnique(ctx, in.Code, 0); err != nil {
		return model.Item{}, u.fail("create item", err)
	}

	reorder := model.DefaultReorderLevel
	if in.ReorderLevel != nil {
		reorder = *in.ReorderLevel
	}

	var created model.Item
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.Items().Create(ctx, model.Item{
			Code:         in.Code,
			Name:         in.Name,
			Description:  in.Description,
			CategoryID:   in.CategoryID,
			SupplierID:   in.SupplierID,
			LocationID:   in.LocationID,
			UnitPrice:    in.UnitPrice.Round(2),
			CurrentStock: in.InitialStock,
			ReorderLevel: reorder,
		})
		if err != nil {
			return err
		}
		created = it

		//監査ログ（作成）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionCreateItem,
			ResourceType: model.AuditResourceItem,
			ResourceID:   it.ID,
			AfterJSON:    itemSnapshotJSON(it),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return model.Item{}, u.fail("create item", err)
	}
	return created, nil
}

// マスタ項目の更新。在庫数は記帳でしか変わらないのでここでは触らない。
func (u *ItemUsecase) Update(ctx context.Context, actor string, id int64, in ItemInput) (model.Item, error) {
	if id <= 0 {
		return model.Item{}, validation("invalid item id")
	}
	in = in.normalize()
	in.InitialStock = 0
	if err := validateItemInput(in); err != nil {
		return model.Item{}, err
	}

	before, err := u.items.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, notFound("Item")
	}
	if err != nil {
		return model.Item{}, u.fail("update item", err)
	}
	if err := u.checkRefs(ctx, in); err != nil {
		return model.Item{}, u.fail("update item", err)
	}
	if err := u.checkCodeUnique(ctx, in.Code, id); err != nil {
		return model.Item{}, u.fail("update item", err)
	}

	reorder := before.ReorderLevel
	if in.ReorderLevel != nil {
		reorder = *in.ReorderLevel
	}

	after := before
	after.Code = in.Code
	after.Name = in.Name
	after.Description = in.Description
	after.CategoryID = in.CategoryID
	after.SupplierID = in.SupplierID
	after.LocationID = in.LocationID
	after.UnitPrice = in.UnitPrice.Round(2)
	after.ReorderLevel = reorder

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Items().Update(ctx, after); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionUpdateItem,
			ResourceType: model.AuditResourceItem,
			ResourceID:   id,
			BeforeJSON:   itemSnapshotJSON(before),
			AfterJSON:    itemSnapshotJSON(after),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return model.Item{}, u.fail("update item", err)
	}

	return u.Get(ctx, id)
}

// 取引がある品目は削除できない
func (u *ItemUsecase) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return validation("invalid item id")
	}

	before, err := u.items.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("Item")
	}
	if err != nil {
		return u.fail("delete item", err)
	}

	n, err := u.txns.CountByItem(ctx, id)
	if err != nil {
		return u.fail("delete item", err)
	}
	if n > 0 {
		return conflict("Cannot delete item %s: it has %d transaction(s)", before.Code, n)
	}

	err = u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Items().Delete(ctx, id); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionDeleteItem,
			ResourceType: model.AuditResourceItem,
			ResourceID:   id,
			BeforeJSON:   itemSnapshotJSON(before),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return u.fail("delete item", err)
	}
	return nil
}

// repositoryのエラーをHTTPErrorにそろえる
func (u *ItemUsecase) fail(op string, err error) error {
	return mapRepoError(u.log, op, err)
}

// 監査ログに残す品目の中身
type itemSnapshot struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"category_id"`
	SupplierID   *int64 `json:"supplier_id"`
	LocationID   *int64 `json:"location_id"`
	UnitPrice    string `json:"unit_price"`
	CurrentStock int64  `json:"current_stock"`
	ReorderLevel int64  `json:"reorder_level"`
}

func itemSnapshotJSON(it model.Item) string {
	b, err := json.Marshal(itemSnapshot{
		Code:         it.Code,
		Name:         it.Name,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		LocationID:   it.LocationID,
		UnitPrice:    it.UnitPrice.StringFixed(2),
		CurrentStock: it.CurrentStock,
		ReorderLevel: it.ReorderLevel,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}
