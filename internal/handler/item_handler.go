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

// /items の画面
type ItemHandler struct {
	items      *usecase.ItemUsecase
	categories *usecase.CategoryUsecase
	suppliers  *usecase.SupplierUsecase
	locations  *usecase.LocationUsecase
	perPage    int
}

// DI
func NewItemHandler(
	items *usecase.ItemUsecase,
	categories *usecase.CategoryUsecase,
	suppliers *usecase.SupplierUsecase,
	locations *usecase.LocationUsecase,
	perPage int,
) *ItemHandler {
	return &ItemHandler{items: items, categories: categories, suppliers: suppliers, locations: locations, perPage: perPage}
}

// guardはPOSTだけに付ける
func (h *ItemHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/items", h.list)
	e.POST("/items", h.create, guard...)
	e.GET("/items/create", h.newForm)
	e.GET("/items/:id", h.detail)
	e.GET("/items/:id/edit", h.editForm)
	e.POST("/items/:id/edit", h.update, guard...)
	e.POST("/items/:id/delete", h.delete, guard...)
}

type ItemListPage struct {
	usecase.ItemListOutput
	Categories []model.Category
	Search     string
	CategoryID *int64
}

func (h *ItemHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	categoryID, _ := optionalInt64(c.QueryParam("category_id"))
	search := strings.TrimSpace(c.QueryParam("search"))

	out, err := h.items.List(ctx, usecase.ListItemsInput{
		Page:       queryPage(c),
		Limit:      h.perPage,
		Search:     search,
		CategoryID: categoryID,
	})
	if err != nil {
		return renderError(c, err)
	}
	cats, err := h.categories.List(ctx)
	if err != nil {
		return renderError(c, err)
	}

	return render(c, http.StatusOK, "items", "Items", ItemListPage{
		ItemListOutput: out,
		Categories:     cats,
		Search:         search,
		CategoryID:     categoryID,
	})
}

func (h *ItemHandler) detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	out, err := h.items.Detail(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "item_detail", out.Item.Name, out)
}

// フォームの値（文字列のまま持ち、再表示に使う）
type ItemFormValues struct {
	Code         string
	Name         string
	Description  string
	CategoryID   int64
	SupplierID   *int64
	LocationID   *int64
	UnitPrice    string
	InitialStock string
	ReorderLevel string
}

type ItemFormPage struct {
	IsNew      bool
	Action     string
	ItemID     int64
	Values     ItemFormValues
	Categories []model.Category
	Suppliers  []model.Supplier
	Locations  []model.Location
}

func (h *ItemHandler) formPage(c echo.Context, isNew bool, id int64, v ItemFormValues) (ItemFormPage, error) {
	ctx := c.Request().Context()
	cats, err := h.categories.List(ctx)
	if err != nil {
		return ItemFormPage{}, err
	}
	sups, err := h.suppliers.List(ctx)
	if err != nil {
		return ItemFormPage{}, err
	}
	locs, err := h.locations.List(ctx)
	if err != nil {
		return ItemFormPage{}, err
	}

	action := "/items"
	if !isNew {
		action = fmt.Sprintf("/items/%d/edit", id)
	}
	return ItemFormPage{
		IsNew:      isNew,
		Action:     action,
		ItemID:     id,
		Values:     v,
		Categories: cats,
		Suppliers:  sups,
		Locations:  locs,
	}, nil
}

func (h *ItemHandler) newForm(c echo.Context) error {
	fp, err := h.formPage(c, true, 0, ItemFormValues{
		UnitPrice:    "0.00",
		InitialStock: "0",
		ReorderLevel: strconv.FormatInt(model.DefaultReorderLevel, 10),
	})
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "item_form", "Add Item", fp)
}

func (h *ItemHandler) editForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	it, err := h.items.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}

	fp, err := h.formPage(c, false, id, ItemFormValues{
		Code:         it.Code,
		Name:         it.Name,
		Description:  it.Description,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		LocationID:   it.LocationID,
		UnitPrice:    it.UnitPrice.StringFixed(2),
		ReorderLevel: strconv.FormatInt(it.ReorderLevel, 10),
	})
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "item_form", "Edit Item", fp)
}

// フォームを読む。数値の形式エラーは入力不正として返す。
func bindItemForm(c echo.Context) (ItemFormValues, usecase.ItemInput, error) {
	v := ItemFormValues{
		Code:         c.FormValue("code"),
		Name:         c.FormValue("name"),
		Description:  c.FormValue("description"),
		UnitPrice:    strings.TrimSpace(c.FormValue("unit_price")),
		InitialStock: strings.TrimSpace(c.FormValue("current_stock")),
		ReorderLevel: strings.TrimSpace(c.FormValue("reorder_level")),
	}
	bad := func(msg string) error { return usecase.NewHTTPError(http.StatusBadRequest, msg) }

	cat, err := optionalInt64(c.FormValue("category_id"))
	if err != nil {
		return v, usecase.ItemInput{}, bad("invalid category")
	}
	if cat != nil {
		v.CategoryID = *cat
	}
	if v.SupplierID, err = optionalInt64(c.FormValue("supplier_id")); err != nil {
		return v, usecase.ItemInput{}, bad("invalid supplier")
	}
	if v.LocationID, err = optionalInt64(c.FormValue("location_id")); err != nil {
		return v, usecase.ItemInput{}, bad("invalid location")
	}

	in := usecase.ItemInput{
		Code:        v.Code,
		Name:        v.Name,
		Description: v.Description,
		CategoryID:  v.CategoryID,
		SupplierID:  v.SupplierID,
		LocationID:  v.LocationID,
	}

	if v.UnitPrice != "" {
		price, err := decimal.NewFromString(v.UnitPrice)
		if err != nil {
			return v, in, bad("unit price must be a number")
		}
		in.UnitPrice = price
	}
	if v.InitialStock != "" {
		n, err := strconv.ParseInt(v.InitialStock, 10, 64)
		if err != nil {
			return v, in, bad("stock must be a whole number")
		}
		in.InitialStock = n
	}
	if v.ReorderLevel != "" {
		n, err := strconv.ParseInt(v.ReorderLevel, 10, 64)
		if err != nil {
			return v, in, bad("reorder level must be a whole number")
		}
		in.ReorderLevel = &n
	}
	return v, in, nil
}

func (h *ItemHandler) create(c echo.Context) error {
	v, in, err := bindItemForm(c)
	if err == nil {
		var it model.Item
		it, err = h.items.Create(c.Request().Context(), middleware.Operator(c), in)
		if err == nil {
			return redirectWithFlash(c, "success", fmt.Sprintf("Item %s created successfully.", it.Code), fmt.Sprintf("/items/%d", it.ID))
		}
	}

	fp, ferr := h.formPage(c, true, 0, v)
	if ferr != nil {
		return renderError(c, ferr)
	}
	return renderForm(c, err, "item_form", "Add Item", fp)
}

func (h *ItemHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}

	v, in, err := bindItemForm(c)
	if err == nil {
		var it model.Item
		it, err = h.items.Update(c.Request().Context(), middleware.Operator(c), id, in)
		if err == nil {
			return redirectWithFlash(c, "success", fmt.Sprintf("Item %s updated successfully.", it.Code), fmt.Sprintf("/items/%d", id))
		}
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusNotFound {
		return renderError(c, err)
	}

	fp, ferr := h.formPage(c, false, id, v)
	if ferr != nil {
		return renderError(c, ferr)
	}
	return renderForm(c, err, "item_form", "Edit Item", fp)
}

func (h *ItemHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}

	if err := h.items.Delete(c.Request().Context(), middleware.Operator(c), id); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			return redirectWithFlash(c, "danger", he.Message, fmt.Sprintf("/items/%d", id))
		}
		return renderError(c, err)
	}
	return redirectWithFlash(c, "success", "Item deleted successfully.", "/items")
}
