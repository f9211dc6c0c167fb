package handler

import (
	"fmt"
	"net/http"

	"inventory/internal/domain/model"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
)

type LocationHandler struct {
	uc *usecase.LocationUsecase
}

func NewLocationHandler(uc *usecase.LocationUsecase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

func (h *LocationHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/locations", h.list)
	e.POST("/locations", h.create, guard...)
	e.GET("/locations/create", h.newForm)
	e.GET("/locations/:id/edit", h.editForm)
	e.POST("/locations/:id/edit", h.update, guard...)
	e.POST("/locations/:id/delete", h.delete, guard...)
}

type LocationFormPage struct {
	IsNew  bool
	Action string
	Values usecase.LocationInput
}

func (h *LocationHandler) list(c echo.Context) error {
	ls, err := h.uc.List(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "locations", "Locations", ls)
}

func (h *LocationHandler) newForm(c echo.Context) error {
	return render(c, http.StatusOK, "location_form", "Add Location", LocationFormPage{IsNew: true, Action: "/locations"})
}

func (h *LocationHandler) editForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	l, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "location_form", "Edit Location", LocationFormPage{
		Action: fmt.Sprintf("/locations/%d/edit", id),
		Values: usecase.LocationInput{Warehouse: l.Warehouse, Aisle: l.Aisle, Shelf: l.Shelf, Bin: l.Bin},
	})
}

func bindLocationForm(c echo.Context) usecase.LocationInput {
	return usecase.LocationInput{
		Warehouse: c.FormValue("warehouse"),
		Aisle:     c.FormValue("aisle"),
		Shelf:     c.FormValue("shelf"),
		Bin:       c.FormValue("bin"),
	}
}

func (h *LocationHandler) create(c echo.Context) error {
	in := bindLocationForm(c)
	l, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return renderForm(c, err, "location_form", "Add Location", LocationFormPage{IsNew: true, Action: "/locations", Values: in})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Location %s created successfully.", l.Label()), "/locations")
}

func (h *LocationHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	in := bindLocationForm(c)
	var l model.Location
	if l, err = h.uc.Update(c.Request().Context(), id, in); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusNotFound {
			return renderError(c, err)
		}
		return renderForm(c, err, "location_form", "Edit Location", LocationFormPage{
			Action: fmt.Sprintf("/locations/%d/edit", id),
			Values: in,
		})
	}
	return redirectWithFlash(c, "success", fmt.Sprintf("Location %s updated successfully.", l.Label()), "/locations")
}

func (h *LocationHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return renderError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			return redirectWithFlash(c, "danger", he.Message, "/locations")
		}
		return renderError(c, err)
	}
	return redirectWithFlash(c, "success", "Location deleted successfully.", "/locations")
}
