package handler

import (
	"fmt"
	"net/http"

	"inventory/internal/domain/model"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SupplierHandler struct {
	uc *usecase.SupplierUsecase
}

func NewSupplierHandler(uc *usecase.SupplierUsecase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

func (h *SupplierHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/suppliers", h.list)
	e.POST("/suppliers", h.create, guard...)
	e.GET("/suppliers/create", h.newForm)
	e.GET("/suppliers/:id/edit", h.editForm)
	e.POST("/suppliers/:id/edit", h.update, guard...)
	e.POST("/suppliers/:id/delete", h.delete, guard...)
}

type SupplierFormPage struct {
	IsNew  bool
	Action string
	Values usecase.SupplierInput
}

func (h *SupplierHandler) list(c echo.Context) error {
	ss, err := h.uc.List(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "suppliers", "Suppliers", ss)
}

func (h *SupplierHandler) newForm(c echo.Context) error {
	return render(c, http.StatusOK, "supplier_form", "Add Supplier", SupplierFormPage{IsNew: true, Action: "/suppliers"})
}

func (h *SupplierHandler) editForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	s, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "supplier_form", "Edit Supplier", SupplierFormPage{
		Action: fmt.Sprintf("/suppliers/%d/edit", id),
		Values: usecase.SupplierInput{
			Name:          s.Name,
			ContactPerson: s.ContactPerson,
			Email:         s.Email,
			Phone:         s.Phone,
			Address:       s.Address,
		},
	})
}

func bindSupplierForm(c echo.Context) usecase.SupplierInput {
	return usecase.SupplierInput{
		Name:          c.FormValue("name"),
		ContactPerson: c.FormValue("contact_person"),
		Email:         c.FormValue("email"),
		Phone:         c.FormValue("phone"),
		Address:       c.FormValue("address"),
	}
}

func (h *SupplierHandler) create(c echo.Context) error {
	in := bindSupplierForm(c)
	s, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return renderForm(c, err, "supplier_form", "Add Supplier", SupplierFormPage{IsNew: true, Action: "/suppliers", Values: in})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Supplier %s created successfully.", s.Name), "/suppliers")
}

func (h *SupplierHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	in := bindSupplierForm(c)
	var s model.Supplier
	if s, err = h.uc.Update(c.Request().Context(), id, in); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusNotFound {
			return renderError(c, err)
		}
		return renderForm(c, err, "supplier_form", "Edit Supplier", SupplierFormPage{
			Action: fmt.Sprintf("/suppliers/%d/edit", id),
			Values: in,
		})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Supplier %s updated successfully.", s.Name), "/suppliers")
}

func (h *SupplierHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			return redirectWithFlash(c, "danger", he.Message, "/suppliers")
		}
		return renderError(c, err)
	}
	return redirectWithFlash(c, "success", "Supplier deleted successfully.", "/suppliers")
}
