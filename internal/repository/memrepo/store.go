// Package memrepo はrepositoryの各interfaceをメモリ上で実装する。
// テストとローカル確認用。WithinTxはスナップショットを取り、fnが失敗したら戻す。
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/shopspring/decimal"
)

type state struct {
	categories map[int64]model.Category
	suppliers  map[int64]model.Supplier
	locations  map[int64]model.Location
	items      map[int64]model.Item
	txnTypes   map[int64]model.TransactionType
	txns       map[int64]model.Transaction
	auditLogs  []model.AuditLog
	seq        int64
}

func (s *state) clone() *state {
	c := &state{
		categories: make(map[int64]model.Category, len(s.categories)),
		suppliers:  make(map[int64]model.Supplier, len(s.suppliers)),
		locations:  make(map[int64]model.Location, len(s.locations)),
		items:      make(map[int64]model.Item, len(s.items)),
		txnTypes:   make(map[int64]model.TransactionType, len(s.txnTypes)),
		txns:       make(map[int64]model.Transaction, len(s.txns)),
		auditLogs:  append([]model.AuditLog(nil), s.auditLogs...),
		seq:        s.seq,
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.txnTypes {
		c.txnTypes[k] = v
	}
	for k, v := range s.txns {
		c.txns[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store は全テーブルを持つ。
type Store struct {
	mu   sync.Mutex // data
	txMu sync.Mutex // WithinTxを直列にする
	data *state

	// 操作名（"items.SetStock" など）ごとに返すエラー。障害注入用。
	failures map[string]error
}

// New は取引種類をシードした空のStoreを返す。
func New() *Store {
	s := &Store{
		data: &state{
			categories: map[int64]model.Category{},
			suppliers:  map[int64]model.Supplier{},
			locations:  map[int64]model.Location{},
			items:      map[int64]model.Item{},
			txnTypes:   map[int64]model.TransactionType{},
			txns:       map[int64]model.Transaction{},
		},
		failures: map[string]error{},
	}
	for _, seed := range model.TransactionTypeSeeds {
		tt := seed
		tt.ID = s.data.nextID()
		s.data.txnTypes[tt.ID] = tt
	}
	return s
}

// FailOn は次回以降のopでerrを返させる（nilで解除）。
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// RemoveTransactionType はシード漏れの再現用。
func (s *Store) RemoveTransactionType(kind model.TransactionKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tt := range s.data.txnTypes {
		if tt.Name == kind {
			delete(s.data.txnTypes, id)
		}
	}
}

// AuditLogEntries は記録済みの監査ログを返す。
func (s *Store) AuditLogEntries() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AuditLog(nil), s.data.auditLogs...)
}

// lock はmuを取り、op用の注入エラーがあれば返す。
func (s *Store) lock(op string) (unlock func(), err error) {
	s.mu.Lock()
	if e, ok := s.failures[op]; ok {
		s.mu.Unlock()
		return func() {}, e
	}
	return s.mu.Unlock, nil
}

func (s *Store) Categories() *CategoryRepository              { return &CategoryRepository{s: s} }
func (s *Store) Suppliers() *SupplierRepository               { return &SupplierRepository{s: s} }
func (s *Store) Locations() *LocationRepository               { return &LocationRepository{s: s} }
func (s *Store) Items() *ItemRepository                       { return &ItemRepository{s: s} }
func (s *Store) TransactionTypes() *TransactionTypeRepository { return &TransactionTypeRepository{s: s} }
func (s *Store) Transactions() *TransactionRepository         { return &TransactionRepository{s: s} }
func (s *Store) AuditLogs() *AuditLogRepository               { return &AuditLogRepository{s: s} }
func (s *Store) Reports() *ReportRepository                   { return &ReportRepository{s: s} }

type txRepos struct{ s *Store }

func (r txRepos) Items() repo.ItemRepository                       { return r.s.Items() }
func (r txRepos) Transactions() repo.TransactionRepository         { return r.s.Transactions() }
func (r txRepos) TransactionTypes() repo.TransactionTypeRepository { return r.s.TransactionTypes() }
func (r txRepos) Suppliers() repo.SupplierRepository               { return r.s.Suppliers() }
func (r txRepos) AuditLogs() repo.AuditLogRepository               { return r.s.AuditLogs() }

// WithinTx はfnがエラーを返したら全テーブルを開始時点に戻す。
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(txRepos{s: s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func paginate[T any](rows []T, page, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// ---- categories ----

type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	unlock, err := r.s.lock("categories.List")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(r.s.data.categories))
	for _, c := range r.s.data.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	unlock, err := r.s.lock("categories.FindByID")
	defer unlock()
	if err != nil {
		return model.Category{}, err
	}
	c, ok := r.s.data.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	unlock, err := r.s.lock("categories.FindByName")
	defer unlock()
	if err != nil {
		return model.Category{}, err
	}
	for _, c := range r.s.data.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Category{}, repo.ErrNotFound
}

func (r *CategoryRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	unlock, err := r.s.lock("categories.Create")
	defer unlock()
	if err != nil {
		return model.Category{}, err
	}
	for _, other := range r.s.data.categories {
		if other.Name == c.Name {
			return model.Category{}, repo.ErrDuplicate
		}
	}
	now := time.Now()
	c.ID = r.s.data.nextID()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.data.categories[c.ID] = c
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c model.Category) error {
	unlock, err := r.s.lock("categories.Update")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.data.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for _, other := range r.s.data.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return repo.ErrDuplicate
		}
	}
	cur.Name, cur.Description, cur.UpdatedAt = c.Name, c.Description, time.Now()
	r.s.data.categories[c.ID] = cur
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	unlock, err := r.s.lock("categories.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.data.categories[id]; !ok {
		return repo.ErrNotFound
	}
	for _, it := range r.s.data.items {
		if it.CategoryID == id {
			return repo.ErrReferenced
		}
	}
	delete(r.s.data.categories, id)
	return nil
}

func (r *CategoryRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	unlock, err := r.s.lock("categories.CountItems")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, it := range r.s.data.items {
		if it.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// ---- suppliers ----

type SupplierRepository struct{ s *Store }

func (r *SupplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	unlock, err := r.s.lock("suppliers.List")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := make([]model.Supplier, 0, len(r.s.data.suppliers))
	for _, v := range r.s.data.suppliers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepository) FindByID(ctx context.Context, id int64) (model.Supplier, error) {
	unlock, err := r.s.lock("suppliers.FindByID")
	defer unlock()
	if err != nil {
		return model.Supplier{}, err
	}
	v, ok := r.s.data.suppliers[id]
	if !ok {
		return model.Supplier{}, repo.ErrNotFound
	}
	return v, nil
}

func (r *SupplierRepository) FindByName(ctx context.Context, name string) (model.Supplier, error) {
	unlock, err := r.s.lock("suppliers.FindByName")
	defer unlock()
	if err != nil {
		return model.Supplier{}, err
	}
	for _, v := range r.s.data.suppliers {
		if v.Name == name {
			return v, nil
		}
	}
	return model.Supplier{}, repo.ErrNotFound
}

func (r *SupplierRepository) Create(ctx context.Context, v model.Supplier) (model.Supplier, error) {
	unlock, err := r.s.lock("suppliers.Create")
	defer unlock()
	if err != nil {
		return model.Supplier{}, err
	}
	for _, other := range r.s.data.suppliers {
		if other.Name == v.Name {
			return model.Supplier{}, repo.ErrDuplicate
		}
	}
	now := time.Now()
	v.ID = r.s.data.nextID()
	v.CreatedAt, v.UpdatedAt = now, now
	r.s.data.suppliers[v.ID] = v
	return v, nil
}

func (r *SupplierRepository) Update(ctx context.Context, v model.Supplier) error {
	unlock, err := r.s.lock("suppliers.Update")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.data.suppliers[v.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for _, other := range r.s.data.suppliers {
		if other.ID != v.ID && other.Name == v.Name {
			return repo.ErrDuplicate
		}
	}
	v.CreatedAt, v.UpdatedAt = cur.CreatedAt, time.Now()
	r.s.data.suppliers[v.ID] = v
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, id int64) error {
	unlock, err := r.s.lock("suppliers.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.data.suppliers[id]; !ok {
		return repo.ErrNotFound
	}
	for _, it := range r.s.data.items {
		if it.SupplierID != nil && *it.SupplierID == id {
			return repo.ErrReferenced
		}
	}
	for _, t := range r.s.data.txns {
		if t.SupplierID != nil && *t.SupplierID == id {
			return repo.ErrReferenced
		}
	}
	delete(r.s.data.suppliers, id)
	return nil
}

func (r *SupplierRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	unlock, err := r.s.lock("suppliers.CountItems")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, it := range r.s.data.items {
		if it.SupplierID != nil && *it.SupplierID == id {
			n++
		}
	}
	return n, nil
}

func (r *SupplierRepository) CountTransactions(ctx context.Context, id int64) (int64, error) {
	unlock, err := r.s.lock("suppliers.CountTransactions")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, t := range r.s.data.txns {
		if t.SupplierID != nil && *t.SupplierID == id {
			n++
		}
	}
	return n, nil
}

// ---- locations ----

type LocationRepository struct{ s *Store }

func (r *LocationRepository) List(ctx context.Context) ([]model.Location, error) {
	unlock, err := r.s.lock("locations.List")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := make([]model.Location, 0, len(r.s.data.locations))
	for _, v := range r.s.data.locations {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id int64) (model.Location, error) {
	unlock, err := r.s.lock("locations.FindByID")
	defer unlock()
	if err != nil {
		return model.Location{}, err
	}
	v, ok := r.s.data.locations[id]
	if !ok {
		return model.Location{}, repo.ErrNotFound
	}
	return v, nil
}

func (r *LocationRepository) Create(ctx context.Context, v model.Location) (model.Location, error) {
	unlock, err := r.s.lock("locations.Create")
	defer unlock()
	if err != nil {
		return model.Location{}, err
	}
	now := time.Now()
	v.ID = r.s.data.nextID()
	v.CreatedAt, v.UpdatedAt = now, now
	r.s.data.locations[v.ID] = v
	return v, nil
}

func (r *LocationRepository) Update(ctx context.Context, v model.Location) error {
	unlock, err := r.s.lock("locations.Update")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.data.locations[v.ID]
	if !ok {
		return repo.ErrNotFound
	}
	v.CreatedAt, v.UpdatedAt = cur.CreatedAt, time.Now()
	r.s.data.locations[v.ID] = v
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	unlock, err := r.s.lock("locations.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.data.locations[id]; !ok {
		return repo.ErrNotFound
	}
	for _, it := range r.s.data.items {
		if it.LocationID != nil && *it.LocationID == id {
			return repo.ErrReferenced
		}
	}
	delete(r.s.data.locations, id)
	return nil
}

func (r *LocationRepository) CountItems(ctx context.Context, id int64) (int64, error) {
	unlock, err := r.s.lock("locations.CountItems")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, it := range r.s.data.items {
		if it.LocationID != nil && *it.LocationID == id {
			n++
		}
	}
	return n, nil
}

// ---- items ----

type ItemRepository struct{ s *Store }

// 参照先を埋める（mu取得済みで呼ぶ）
func (r *ItemRepository) withRefs(it model.Item) model.Item {
	if c, ok := r.s.data.categories[it.CategoryID]; ok {
		it.Category = &c
	}
	if it.SupplierID != nil {
		if v, ok := r.s.data.suppliers[*it.SupplierID]; ok {
			it.Supplier = &v
		}
	}
	if it.LocationID != nil {
		if v, ok := r.s.data.locations[*it.LocationID]; ok {
			it.Location = &v
		}
	}
	return it
}

func (r *ItemRepository) sorted(filter func(model.Item) bool, less func(a, b model.Item) bool) []model.Item {
	out := []model.Item{}
	for _, it := range r.s.data.items {
		if filter == nil || filter(it) {
			out = append(out, r.withRefs(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byName(a, b model.Item) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func byStock(a, b model.Item) bool {
	if a.CurrentStock != b.CurrentStock {
		return a.CurrentStock < b.CurrentStock
	}
	return byName(a, b)
}

func (r *ItemRepository) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	unlock, err := r.s.lock("items.List")
	defer unlock()
	if err != nil {
		return []model.Item{}, 0, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	rows := r.sorted(func(it model.Item) bool {
		if q.CategoryID != nil && it.CategoryID != *q.CategoryID {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(it.Name), search) ||
			strings.Contains(strings.ToLower(it.Code), search)
	}, byName)
	return paginate(rows, q.Page, q.Limit), int64(len(rows)), nil
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	unlock, err := r.s.lock("items.ListAll")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return r.sorted(nil, byName), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (model.Item, error) {
	unlock, err := r.s.lock("items.FindByID")
	defer unlock()
	if err != nil {
		return model.Item{}, err
	}
	it, ok := r.s.data.items[id]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return r.withRefs(it), nil
}

// メモリ版はWithinTxが直列なのでロックは不要
func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Item, error) {
	unlock, err := r.s.lock("items.FindByIDForUpdate")
	defer unlock()
	if err != nil {
		return model.Item{}, err
	}
	it, ok := r.s.data.items[id]
	if !ok {
		return model.Item{}, repo.ErrNotFound
	}
	return it, nil
}

func (r *ItemRepository) FindByCode(ctx context.Context, code string) (model.Item, error) {
	unlock, err := r.s.lock("items.FindByCode")
	defer unlock()
	if err != nil {
		return model.Item{}, err
	}
	for _, it := range r.s.data.items {
		if it.Code == code {
			return it, nil
		}
	}
	return model.Item{}, repo.ErrNotFound
}

// 外部キーと一意制約（mu取得済みで呼ぶ）
func (r *ItemRepository) check(it model.Item) error {
	for _, other := range r.s.data.items {
		if other.ID != it.ID && other.Code == it.Code {
			return repo.ErrDuplicate
		}
	}
	if _, ok := r.s.data.categories[it.CategoryID]; !ok {
		return repo.ErrReferenced
	}
	if it.SupplierID != nil {
		if _, ok := r.s.data.suppliers[*it.SupplierID]; !ok {
			return repo.ErrReferenced
		}
	}
	if it.LocationID != nil {
		if _, ok := r.s.data.locations[*it.LocationID]; !ok {
			return repo.ErrReferenced
		}
	}
	return nil
}

func (r *ItemRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	unlock, err := r.s.lock("items.Create")
	defer unlock()
	if err != nil {
		return model.Item{}, err
	}
	it.Category, it.Supplier, it.Location = nil, nil, nil
	if err := r.check(it); err != nil {
		return model.Item{}, err
	}
	now := time.Now()
	it.ID = r.s.data.nextID()
	it.CreatedAt, it.UpdatedAt = now, now
	r.s.data.items[it.ID] = it
	return it, nil
}

func (r *ItemRepository) Update(ctx context.Context, it model.Item) error {
	unlock, err := r.s.lock("items.Update")
	defer unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.data.items[it.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if err := r.check(it); err != nil {
		return err
	}
	cur.Code, cur.Name, cur.Description = it.Code, it.Name, it.Description
	cur.CategoryID, cur.SupplierID, cur.LocationID = it.CategoryID, it.SupplierID, it.LocationID
	cur.UnitPrice, cur.ReorderLevel = it.UnitPrice, it.ReorderLevel
	cur.UpdatedAt = time.Now()
	r.s.data.items[it.ID] = cur
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	unlock, err := r.s.lock("items.Delete")
	defer unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.data.items[id]; !ok {
		return repo.ErrNotFound
	}
	for _, t := range r.s.data.txns {
		if t.ItemID == id {
			return repo.ErrReferenced
		}
	}
	delete(r.s.data.items, id)
	return nil
}

func (r *ItemRepository) SetStock(ctx context.Context, id int64, newStock int64) error {
	unlock, err := r.s.lock("items.SetStock")
	defer unlock()
	if err != nil {
		return err
	}
	it, ok := r.s.data.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	it.CurrentStock = newStock
	it.UpdatedAt = time.Now()
	r.s.data.items[id] = it
	return nil
}

func (r *ItemRepository) ListStockLevels(ctx context.Context, categoryID *int64) ([]model.Item, error) {
	unlock, err := r.s.lock("items.ListStockLevels")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return r.sorted(func(it model.Item) bool {
		return categoryID == nil || it.CategoryID == *categoryID
	}, byStock), nil
}

func (r *ItemRepository) ListLowStock(ctx context.Context) ([]model.Item, error) {
	unlock, err := r.s.lock("items.ListLowStock")
	defer unlock()
	if err != nil {
		return nil, err
	}
	return r.sorted(func(it model.Item) bool { return it.IsLowStock() }, byStock), nil
}

// ---- transaction types / transactions ----

type TransactionTypeRepository struct{ s *Store }

func (r *TransactionTypeRepository) List(ctx context.Context) ([]model.TransactionType, error) {
	unlock, err := r.s.lock("transactionTypes.List")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := make([]model.TransactionType, 0, len(r.s.data.txnTypes))
	for _, v := range r.s.data.txnTypes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TransactionTypeRepository) FindByName(ctx context.Context, name model.TransactionKind) (model.TransactionType, error) {
	unlock, err := r.s.lock("transactionTypes.FindByName")
	defer unlock()
	if err != nil {
		return model.TransactionType{}, err
	}
	for _, v := range r.s.data.txnTypes {
		if v.Name == name {
			return v, nil
		}
	}
	return model.TransactionType{}, repo.ErrNotFound
}

type TransactionRepository struct{ s *Store }

func (r *TransactionRepository) withRefs(t model.Transaction) model.Transaction {
	if it, ok := r.s.data.items[t.ItemID]; ok {
		t.Item = &it
	}
	if tt, ok := r.s.data.txnTypes[t.TypeID]; ok {
		t.Type = &tt
	}
	if t.SupplierID != nil {
		if v, ok := r.s.data.suppliers[*t.SupplierID]; ok {
			t.Supplier = &v
		}
	}
	return t
}

func (r *TransactionRepository) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	unlock, err := r.s.lock("transactions.Create")
	defer unlock()
	if err != nil {
		return model.Transaction{}, err
	}
	t.Item, t.Type, t.Supplier = nil, nil, nil
	if _, ok := r.s.data.items[t.ItemID]; !ok {
		return model.Transaction{}, repo.ErrReferenced
	}
	if _, ok := r.s.data.txnTypes[t.TypeID]; !ok {
		return model.Transaction{}, repo.ErrReferenced
	}
	if t.SupplierID != nil {
		if _, ok := r.s.data.suppliers[*t.SupplierID]; !ok {
			return model.Transaction{}, repo.ErrReferenced
		}
	}
	t.ID = r.s.data.nextID()
	r.s.data.txns[t.ID] = t
	return t, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (model.Transaction, error) {
	unlock, err := r.s.lock("transactions.FindByID")
	defer unlock()
	if err != nil {
		return model.Transaction{}, err
	}
	t, ok := r.s.data.txns[id]
	if !ok {
		return model.Transaction{}, repo.ErrNotFound
	}
	return r.withRefs(t), nil
}

func (r *TransactionRepository) List(ctx context.Context, q repo.TransactionListQuery) ([]model.Transaction, int64, error) {
	unlock, err := r.s.lock("transactions.List")
	defer unlock()
	if err != nil {
		return []model.Transaction{}, 0, err
	}
	rows := []model.Transaction{}
	for _, t := range r.s.data.txns {
		t = r.withRefs(t)
		if q.Kind != "" && t.Kind() != q.Kind {
			continue
		}
		if q.ItemID != nil && t.ItemID != *q.ItemID {
			continue
		}
		if q.From != nil && t.TransactionDate.Before(*q.From) {
			continue
		}
		if q.To != nil && t.TransactionDate.After(*q.To) {
			continue
		}
		rows = append(rows, t)
	}
	// 新しい順
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TransactionDate.Equal(rows[j].TransactionDate) {
			return rows[i].TransactionDate.After(rows[j].TransactionDate)
		}
		return rows[i].ID > rows[j].ID
	})
	return paginate(rows, q.Page, q.Limit), int64(len(rows)), nil
}

func (r *TransactionRepository) CountByItem(ctx context.Context, itemID int64) (int64, error) {
	unlock, err := r.s.lock("transactions.CountByItem")
	defer unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, t := range r.s.data.txns {
		if t.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// ---- audit logs ----

type AuditLogRepository struct{ s *Store }

func (r *AuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	unlock, err := r.s.lock("auditLogs.Create")
	defer unlock()
	if err != nil {
		return err
	}
	log.ID = r.s.data.nextID()
	r.s.data.auditLogs = append(r.s.data.auditLogs, log)
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	unlock, err := r.s.lock("auditLogs.List")
	defer unlock()
	if err != nil {
		return nil, err
	}
	out := []model.AuditLog{}
	for i := len(r.s.data.auditLogs) - 1; i >= 0; i-- {
		l := r.s.data.auditLogs[i]
		if f.Actor != "" && l.Actor != f.Actor {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.ItemID != nil && (l.ResourceType != model.AuditResourceItem || l.ResourceID != *f.ItemID) {
			continue
		}
		if f.Since != nil && l.CreatedAt.Before(*f.Since) {
			continue
		}
		if f.Until != nil && l.CreatedAt.After(*f.Until) {
			continue
		}
		out = append(out, l)
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.AuditLog{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ---- reports ----

type ReportRepository struct{ s *Store }

func (r *ReportRepository) Stats(ctx context.Context) (model.InventoryStats, error) {
	unlock, err := r.s.lock("reports.Stats")
	defer unlock()
	if err != nil {
		return model.InventoryStats{}, err
	}
	st := model.InventoryStats{TotalValue: decimal.Zero}
	for _, it := range r.s.data.items {
		st.TotalItems++
		if it.IsLowStock() {
			st.LowStockItems++
		}
		if it.CurrentStock == 0 {
			st.OutOfStock++
		}
		st.TotalUnits += it.CurrentStock
		st.TotalValue = st.TotalValue.Add(it.StockValue())
	}
	return st, nil
}

func (r *ReportRepository) CategorySummary(ctx context.Context) ([]model.CategorySummary, error) {
	unlock, err := r.s.lock("reports.CategorySummary")
	defer unlock()
	if err != nil {
		return nil, err
	}
	rows := []model.CategorySummary{}
	for _, c := range r.s.data.categories {
		row := model.CategorySummary{CategoryID: c.ID, CategoryName: c.Name, TotalValue: decimal.Zero}
		for _, it := range r.s.data.items {
			if it.CategoryID != c.ID {
				continue
			}
			row.ItemCount++
			row.TotalUnits += it.CurrentStock
			row.TotalValue = row.TotalValue.Add(it.StockValue())
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CategoryName < rows[j].CategoryName })
	return rows, nil
}

func (r *ReportRepository) MovementSummary(ctx context.Context, from, to *time.Time) ([]model.MovementSummary, error) {
	unlock, err := r.s.lock("reports.MovementSummary")
	defer unlock()
	if err != nil {
		return nil, err
	}
	types := make([]model.TransactionType, 0, len(r.s.data.txnTypes))
	for _, tt := range r.s.data.txnTypes {
		types = append(types, tt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })

	rows := make([]model.MovementSummary, 0, len(types))
	for _, tt := range types {
		row := model.MovementSummary{Kind: tt.Name}
		for _, t := range r.s.data.txns {
			if t.TypeID != tt.ID {
				continue
			}
			if from != nil && t.TransactionDate.Before(*from) {
				continue
			}
			if to != nil && t.TransactionDate.After(*to) {
				continue
			}
			row.Count++
			row.TotalQuantity += t.Quantity
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var (
	_ repo.CategoryRepository        = (*CategoryRepository)(nil)
	_ repo.SupplierRepository        = (*SupplierRepository)(nil)
	_ repo.LocationRepository        = (*LocationRepository)(nil)
	_ repo.ItemRepository            = (*ItemRepository)(nil)
	_ repo.TransactionTypeRepository = (*TransactionTypeRepository)(nil)
	_ repo.TransactionRepository     = (*TransactionRepository)(nil)
	_ repo.AuditLogRepository        = (*AuditLogRepository)(nil)
	_ repo.ReportRepository          = (*ReportRepository)(nil)
	_ repo.TransactionManager        = (*Store)(nil)
)
