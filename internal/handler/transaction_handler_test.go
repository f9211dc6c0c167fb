package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockIn_Form_RedirectsWithFlash(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, "/transactions/stock-in", url.Values{
		"item_id":          {strconv.FormatInt(it.ID, 10)},
		"quantity":         {"10"},
		"unit_price":       {"11.00"},
		"reference_number": {"PO-1"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, fmt.Sprintf("/items/%d", it.ID), rec.Header().Get("Location"))
	assert.Equal(t, "success|Stock In recorded for ELEC-001 (+10). Stock is now 35.", flashOf(t, rec))
	assert.Equal(t, int64(35), env.stockOf(t, it.ID))
}

func TestStockOut_Insufficient_RerendersForm(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, "/transactions/stock-out", url.Values{
		"item_id":  {strconv.FormatInt(it.ID, 10)},
		"quantity": {"30"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock. Available: 25, requested: 30")
	//入力値は残す
	assert.Contains(t, rec.Body.String(), `value="30"`)
	assert.Equal(t, int64(25), env.stockOf(t, it.ID))
}

func TestAdjustment_Form(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, "/transactions/adjustment", url.Values{
		"item_id":  {strconv.FormatInt(it.ID, 10)},
		"quantity": {"20"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, flashOf(t, rec), "(-5)")
	assert.Equal(t, int64(20), env.stockOf(t, it.ID))
}

func TestPosting_BadQuantity(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, "/transactions/return", url.Values{
		"item_id":  {strconv.FormatInt(it.ID, 10)},
		"quantity": {"abc"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity must be a whole number")
}

func TestPosting_MissingItem(t *testing.T) {
	env := newEnv(t, operator)

	rec := env.postForm(t, "/transactions/stock-in", url.Values{"quantity": {"1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "item required")
}

func TestPosting_RequiresOperator(t *testing.T) {
	env := newEnv(t, "")
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, "/transactions/stock-in", url.Values{
		"item_id":  {strconv.FormatInt(it.ID, 10)},
		"quantity": {"10"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, int64(25), env.stockOf(t, it.ID))
}

func TestPostingForm_PreselectsItem(t *testing.T) {
	env := newEnv(t, "")
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.get(t, fmt.Sprintf("/transactions/stock-in?item_id=%d", it.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`<option value="%d" selected>`, it.ID))
	assert.Contains(t, rec.Body.String(), `name="supplier_id"`)
}

func TestTransactionList_FilterAndDetail(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)
	env.postForm(t, "/transactions/stock-in", url.Values{"item_id": {strconv.FormatInt(it.ID, 10)}, "quantity": {"5"}})
	env.postForm(t, "/transactions/stock-out", url.Values{"item_id": {strconv.FormatInt(it.ID, 10)}, "quantity": {"3"}})

	rec := env.get(t, "/transactions?type=stock_out")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 transaction(s)")

	rec = env.get(t, "/transactions?type=BOGUS")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	//IDはストア全体の連番なので、記帳した取引から引く
	txns, _, err := env.store.Transactions().List(context.Background(), repo.TransactionListQuery{
		Page: 1, Limit: 10, ItemID: &it.ID, Kind: model.KindStockIn,
	})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	stockIn := txns[0]

	rec = env.get(t, fmt.Sprintf("/transactions/%d", stockIn.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("Transaction #%d", stockIn.ID))
	assert.Contains(t, rec.Body.String(), operator)

	rec = env.get(t, "/transactions/999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
