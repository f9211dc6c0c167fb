package handler

import (
	"net/http"
	"time"

	"inventory/internal/domain/model"
	"inventory/internal/middleware"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /api 以下（JSON）
type APIHandler struct {
	items     *usecase.ItemUsecase
	suppliers *usecase.SupplierUsecase
	txns      *usecase.TransactionUsecase
	reports   *usecase.ReportUsecase
	posting   *usecase.PostingUsecase
}

func NewAPIHandler(
	items *usecase.ItemUsecase,
	suppliers *usecase.SupplierUsecase,
	txns *usecase.TransactionUsecase,
	reports *usecase.ReportUsecase,
	posting *usecase.PostingUsecase,
) *APIHandler {
	return &APIHandler{items: items, suppliers: suppliers, txns: txns, reports: reports, posting: posting}
}

func (h *APIHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.GET("/items", h.listItems)
	g.GET("/items/:id", h.getItem)
	g.GET("/suppliers/:id", h.getSupplier)
	g.GET("/transactions/:id", h.getTransaction)
	g.GET("/stats", h.stats)
	g.POST("/transactions/stock-in", h.stockIn, guard...)
	g.POST("/transactions/stock-out", h.stockOut, guard...)
}

// 一覧の1行
type itemSummaryResponse struct {
	ItemID       int64   `json:"item_id"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	CurrentStock int64   `json:"current_stock"`
	UnitPrice    float64 `json:"unit_price"`
}

type itemResponse struct {
	ItemID       int64   `json:"item_id"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	CurrentStock int64   `json:"current_stock"`
	UnitPrice    float64 `json:"unit_price"`
	ReorderLevel int64   `json:"reorder_level"`
}

type supplierResponse struct {
	SupplierID    int64  `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

type transactionResponse struct {
	TransactionID   int64     `json:"transaction_id"`
	ItemID          int64     `json:"item_id"`
	ItemCode        string    `json:"item_code,omitempty"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	UnitPrice       *float64  `json:"unit_price"`
	SupplierID      *int64    `json:"supplier_id"`
	ReferenceNumber string    `json:"reference_number"`
	Notes           string    `json:"notes"`
	StockBefore     int64     `json:"stock_before"`
	StockAfter      int64     `json:"stock_after"`
	PostedBy        string    `json:"posted_by"`
	TransactionDate time.Time `json:"transaction_date"`
}

type statsResponse struct {
	TotalItems    int64 `json:"total_items"`
	LowStockItems int64 `json:"low_stock_items"`
}

type postingResponse struct {
	Item        itemResponse        `json:"item"`
	Transaction transactionResponse `json:"transaction"`
}

func toItemResponse(it model.Item) itemResponse {
	r := itemResponse{
		ItemID:       it.ID,
		ItemCode:     it.Code,
		ItemName:     it.Name,
		Description:  it.Description,
		CurrentStock: it.CurrentStock,
		UnitPrice:    it.UnitPrice.InexactFloat64(),
		ReorderLevel: it.ReorderLevel,
	}
	if it.Category != nil {
		r.Category = it.Category.Name
	}
	return r
}

func toTransactionResponse(t model.Transaction) transactionResponse {
	r := transactionResponse{
		TransactionID:   t.ID,
		ItemID:          t.ItemID,
		Type:            string(t.Kind()),
		Quantity:        t.Quantity,
		SupplierID:      t.SupplierID,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		StockBefore:     t.StockBefore,
		StockAfter:      t.StockAfter,
		PostedBy:        t.PostedBy,
		TransactionDate: t.TransactionDate,
	}
	if t.Item != nil {
		r.ItemCode = t.Item.Code
	}
	if t.UnitPrice != nil {
		f := t.UnitPrice.InexactFloat64()
		r.UnitPrice = &f
	}
	return r
}

func (h *APIHandler) listItems(c echo.Context) error {
	items, err := h.items.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	res := make([]itemSummaryResponse, 0, len(items))
	for _, it := range items {
		res = append(res, itemSummaryResponse{
			ItemID:       it.ID,
			ItemCode:     it.Code,
			ItemName:     it.Name,
			CurrentStock: it.CurrentStock,
			UnitPrice:    it.UnitPrice.InexactFloat64(),
		})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *APIHandler) getItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Item not found"})
	}
	it, err := h.items.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(it))
}

func (h *APIHandler) getSupplier(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Supplier not found"})
	}
	s, err := h.suppliers.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, supplierResponse{
		SupplierID:    s.ID,
		SupplierName:  s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
	})
}

func (h *APIHandler) getTransaction(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
	}
	t, err := h.txns.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *APIHandler) stats(c echo.Context) error {
	s, err := h.reports.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statsResponse{TotalItems: s.TotalItems, LowStockItems: s.LowStockItems})
}

// 記帳のリクエストボディ
type postingRequest struct {
	ItemID          int64            `json:"item_id"`
	Quantity        int64            `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	SupplierID      *int64           `json:"supplier_id"`
	ReferenceNumber string           `json:"reference_number"`
	Notes           string           `json:"notes"`
}

func (h *APIHandler) stockIn(c echo.Context) error {
	var req postingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}
	out, err := h.posting.StockIn(c.Request().Context(), usecase.StockInInput{
		ItemID:          req.ItemID,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		SupplierID:      req.SupplierID,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		PostedBy:        middleware.Operator(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toPostingResponse(out))
}

func (h *APIHandler) stockOut(c echo.Context) error {
	var req postingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}
	out, err := h.posting.StockOut(c.Request().Context(), usecase.StockOutInput{
		ItemID:          req.ItemID,
		Quantity:        req.Quantity,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		PostedBy:        middleware.Operator(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toPostingResponse(out))
}

func toPostingResponse(out usecase.PostingOutput) postingResponse {
	return postingResponse{Item: toItemResponse(out.Item), Transaction: toTransactionResponse(out.Transaction)}
}
