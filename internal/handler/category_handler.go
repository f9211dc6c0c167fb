package handler

import (
	"fmt"
	"net/http"

	"inventory/internal/domain/model"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/categories", h.list)
	e.POST("/categories", h.create, guard...)
	e.GET("/categories/create", h.newForm)
	e.GET("/categories/:id/edit", h.editForm)
	e.POST("/categories/:id/edit", h.update, guard...)
	e.POST("/categories/:id/delete", h.delete, guard...)
}

type CategoryFormPage struct {
	IsNew  bool
	Action string
	Values usecase.CategoryInput
}

func (h *CategoryHandler) list(c echo.Context) error {
	cs, err := h.uc.List(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "categories", "Categories", cs)
}

func (h *CategoryHandler) newForm(c echo.Context) error {
	return render(c, http.StatusOK, "category_form", "Add Category", CategoryFormPage{IsNew: true, Action: "/categories"})
}

func (h *CategoryHandler) editForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	cat, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "category_form", "Edit Category", CategoryFormPage{
		Action: fmt.Sprintf("/categories/%d/edit", id),
		Values: usecase.CategoryInput{Name: cat.Name, Description: cat.Description},
	})
}

func bindCategoryForm(c echo.Context) usecase.CategoryInput {
	return usecase.CategoryInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}
}

func (h *CategoryHandler) create(c echo.Context) error {
	in := bindCategoryForm(c)
	cat, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return renderForm(c, err, "category_form", "Add Category", CategoryFormPage{IsNew: true, Action: "/categories", Values: in})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Category %s created successfully.", cat.Name), "/categories")
}

func (h *CategoryHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	in := bindCategoryForm(c)
	var cat model.Category
	if cat, err = h.uc.Update(c.Request().Context(), id, in); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusNotFound {
			return renderError(c, err)
		}
		return renderForm(c, err, "category_form", "Edit Category", CategoryFormPage{
			Action: fmt.Sprintf("/categories/%d/edit", id),
			Values: in,
		})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Category %s updated successfully.", cat.Name), "/categories")
}

// 品目が残っていれば一覧に戻してエラーを出す
func (h *CategoryHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			return redirectWithFlash(c, "danger", he.Message, "/categories")
		}
		return renderError(c, err)
	}
	return redirectWithFlash(c, "success", "Category deleted successfully.", "/categories")
}
