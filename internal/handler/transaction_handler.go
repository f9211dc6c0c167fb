package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"inventory/internal/domain/model"
	"inventory/internal/middleware"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /transactions の一覧・詳細と記帳フォーム
type TransactionHandler struct {
	txns      *usecase.TransactionUsecase
	posting   *usecase.PostingUsecase
	items     *usecase.ItemUsecase
	suppliers *usecase.SupplierUsecase
	perPage   int
}

func NewTransactionHandler(
	txns *usecase.TransactionUsecase,
	posting *usecase.PostingUsecase,
	items *usecase.ItemUsecase,
	suppliers *usecase.SupplierUsecase,
	perPage int,
) *TransactionHandler {
	return &TransactionHandler{txns: txns, posting: posting, items: items, suppliers: suppliers, perPage: perPage}
}

// URLの区切りと種類の対応
var postingPaths = map[string]model.TransactionKind{
	"stock-in":   model.KindStockIn,
	"stock-out":  model.KindStockOut,
	"adjustment": model.KindAdjustment,
	"return":     model.KindReturn,
}

func (h *TransactionHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/transactions", h.list)
	for slug, kind := range postingPaths {
		e.GET("/transactions/"+slug, h.postingForm(kind))
		e.POST("/transactions/"+slug, h.post(kind), guard...)
	}
	e.GET("/transactions/:id", h.detail)
}

type TransactionListPage struct {
	usecase.TransactionListOutput
	Types  []model.TransactionType
	Kind   model.TransactionKind
	ItemID *int64
}

func (h *TransactionHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	kind := model.TransactionKind(strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))))
	itemID, _ := optionalInt64(c.QueryParam("item_id"))

	out, err := h.txns.List(ctx, usecase.ListTransactionsInput{
		Page:   queryPage(c),
		Limit:  h.perPage,
		Kind:   kind,
		ItemID: itemID,
	})
	if err != nil {
		return renderError(c, err)
	}
	types, err := h.txns.Types(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "transactions", "Transactions", TransactionListPage{
		TransactionListOutput: out,
		Types:                 types,
		Kind:                  kind,
		ItemID:                itemID,
	})
}

func (h *TransactionHandler) detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	t, err := h.txns.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "transaction_detail", fmt.Sprintf("Transaction #%d", t.ID), t)
}

type PostingFormValues struct {
	ItemID          int64
	Quantity        string
	UnitPrice       string
	SupplierID      *int64
	ReferenceNumber string
	Notes           string
}

type PostingFormPage struct {
	Kind      model.TransactionKind
	Action    string
	Values    PostingFormValues
	Items     []model.Item
	Suppliers []model.Supplier
}

func kindSlug(kind model.TransactionKind) string {
	for slug, k := range postingPaths {
		if k == kind {
			return slug
		}
	}
	return ""
}

func (h *TransactionHandler) formPage(c echo.Context, kind model.TransactionKind, v PostingFormValues) (PostingFormPage, error) {
	ctx := c.Request().Context()
	items, err := h.items.ListAll(ctx)
	if err != nil {
		return PostingFormPage{}, err
	}
	var sups []model.Supplier
	if kind == model.KindStockIn {
		if sups, err = h.suppliers.List(ctx); err != nil {
			return PostingFormPage{}, err
		}
	}
	return PostingFormPage{
		Kind:      kind,
		Action:    "/transactions/" + kindSlug(kind),
		Values:    v,
		Items:     items,
		Suppliers: sups,
	}, nil
}

func postingTitle(kind model.TransactionKind) string {
	switch kind {
	case model.KindStockIn:
		return "Stock In"
	case model.KindStockOut:
		return "Stock Out"
	case model.KindAdjustment:
		return "Stock Adjustment"
	default:
		return "Customer Return"
	}
}

func (h *TransactionHandler) postingForm(kind model.TransactionKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var v PostingFormValues
		//品目詳細から来たときは選択済みにする
		if id, err := optionalInt64(c.QueryParam("item_id")); err == nil && id != nil {
			v.ItemID = *id
		}
		fp, err := h.formPage(c, kind, v)
		if err != nil {
			return renderError(c, err)
		}
		return render(c, http.StatusOK, "posting_form", postingTitle(kind), fp)
	}
}

func bindPostingForm(c echo.Context) (PostingFormValues, error) {
	v := PostingFormValues{
		Quantity:        strings.TrimSpace(c.FormValue("quantity")),
		UnitPrice:       strings.TrimSpace(c.FormValue("unit_price")),
		ReferenceNumber: c.FormValue("reference_number"),
		Notes:           c.FormValue("notes"),
	}
	bad := func(msg string) error { return usecase.NewHTTPError(http.StatusBadRequest, msg) }

	id, err := optionalInt64(c.FormValue("item_id"))
	if err != nil || id == nil {
		return v, bad("item required")
	}
	v.ItemID = *id
	if v.SupplierID, err = optionalInt64(c.FormValue("supplier_id")); err != nil {
		return v, bad("invalid supplier")
	}
	return v, nil
}

func (h *TransactionHandler) post(kind model.TransactionKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := bindPostingForm(c)
		var out usecase.PostingOutput
		if err == nil {
			out, err = h.submit(c, kind, v)
		}
		if err != nil {
			fp, ferr := h.formPage(c, kind, v)
			if ferr != nil {
				return renderError(c, ferr)
			}
			return renderForm(c, err, "posting_form", postingTitle(kind), fp)
		}

		msg := fmt.Sprintf("%s recorded for %s (%s). Stock is now %d.",
			postingTitle(kind), out.Item.Code, signed(out.Transaction.Delta()), out.Item.CurrentStock)
		return redirectWithFlash(c, "success", msg, fmt.Sprintf("/items/%d", out.Item.ID))
	}
}

func signed(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func (h *TransactionHandler) submit(c echo.Context, kind model.TransactionKind, v PostingFormValues) (usecase.PostingOutput, error) {
	ctx := c.Request().Context()
	operator := middleware.Operator(c)
	bad := func(msg string) error { return usecase.NewHTTPError(http.StatusBadRequest, msg) }

	qty, err := strconv.ParseInt(v.Quantity, 10, 64)
	if err != nil {
		if kind == model.KindAdjustment {
			return usecase.PostingOutput{}, bad("counted stock must be a whole number")
		}
		return usecase.PostingOutput{}, bad("quantity must be a whole number")
	}

	switch kind {
	case model.KindStockIn:
		var price *decimal.Decimal
		if v.UnitPrice != "" {
			p, err := decimal.NewFromString(v.UnitPrice)
			if err != nil {
				return usecase.PostingOutput{}, bad("unit price must be a number")
			}
			price = &p
		}
		return h.posting.StockIn(ctx, usecase.StockInInput{
			ItemID: v.ItemID, Quantity: qty, UnitPrice: price, SupplierID: v.SupplierID,
			ReferenceNumber: v.ReferenceNumber, Notes: v.Notes, PostedBy: operator,
		})
	case model.KindStockOut:
		return h.posting.StockOut(ctx, usecase.StockOutInput{
			ItemID: v.ItemID, Quantity: qty,
			ReferenceNumber: v.ReferenceNumber, Notes: v.Notes, PostedBy: operator,
		})
	case model.KindAdjustment:
		return h.posting.Adjust(ctx, usecase.AdjustmentInput{
			ItemID: v.ItemID, CountedStock: qty,
			ReferenceNumber: v.ReferenceNumber, Notes: v.Notes, PostedBy: operator,
		})
	default:
		return h.posting.Return(ctx, usecase.ReturnInput{
			ItemID: v.ItemID, Quantity: qty,
			ReferenceNumber: v.ReferenceNumber, Notes: v.Notes, PostedBy: operator,
		})
	}
}
