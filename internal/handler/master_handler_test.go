package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"inventory/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDelete_BlockedWhileItemsRemain(t *testing.T) {
	env := newEnv(t, operator)
	it := env.seedItem(t, "ELEC-001", 25)

	rec := env.postForm(t, fmt.Sprintf("/categories/%d/delete", it.CategoryID), url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))
	assert.Contains(t, flashOf(t, rec), "danger|Cannot delete category Electronics")

	_, err := env.store.Categories().FindByID(context.Background(), it.CategoryID)
	assert.NoError(t, err)
}

func TestCategoryDelete_Empty(t *testing.T) {
	env := newEnv(t, operator)
	cat, err := env.store.Categories().Create(context.Background(), model.Category{Name: "Unused"})
	require.NoError(t, err)

	rec := env.postForm(t, fmt.Sprintf("/categories/%d/delete", cat.ID), url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "success|Category deleted successfully.", flashOf(t, rec))
}

func TestCategoryCreate_Validation(t *testing.T) {
	env := newEnv(t, operator)

	rec := env.postForm(t, "/categories", url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert-danger")

	rec = env.postForm(t, "/categories", url.Values{"name": {"Tools"}, "description": {"Hand tools"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.get(t, "/categories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hand tools")
}

func TestSupplierCreate_InvalidEmail(t *testing.T) {
	env := newEnv(t, operator)

	rec := env.postForm(t, "/suppliers", url.Values{"name": {"Acme"}, "email": {"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="not-an-email"`)
}

func TestLocationCreateAndEdit(t *testing.T) {
	env := newEnv(t, operator)

	rec := env.postForm(t, "/locations", url.Values{"warehouse": {"Main"}, "aisle": {"A1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	locs, err := env.store.Locations().List(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)

	rec = env.get(t, fmt.Sprintf("/locations/%d/edit", locs[0].ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="A1"`)

	rec = env.get(t, "/locations/999/edit")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReports(t *testing.T) {
	env := newEnv(t, operator)
	low := env.seedItem(t, "LOW-001", 2)
	env.seedItem(t, "OK-001", 50)

	rec := env.get(t, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOW-001")

	rec = env.get(t, "/reports/low-stock")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOW-001")
	assert.NotContains(t, rec.Body.String(), "OK-001")

	rec = env.get(t, fmt.Sprintf("/reports/stock-levels?category_id=%d", low.CategoryID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK-001")

	rec = env.get(t, "/reports/category-summary")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Electronics")

	rec = env.get(t, "/reports/movement-history?from=2024-01-01&to=2099-12-31")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.get(t, "/reports/movement-history?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.get(t, "/reports/movement-history?from=2024-02-01&to=2024-01-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
