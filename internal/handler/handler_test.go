package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inventory/internal/domain/model"
	"inventory/internal/handler"
	"inventory/internal/middleware"
	"inventory/internal/repository/memrepo"
	"inventory/internal/usecase"
	"inventory/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const operator = "ops@example.com"

type testEnv struct {
	e     *echo.Echo
	store *memrepo.Store
}

// operatorが空なら未ログイン扱い
func newEnv(t *testing.T, operatorEmail string) *testEnv {
	t.Helper()

	store := memrepo.New()
	log := zaptest.NewLogger(t)
	clock := usecase.SystemClock{}

	categories := usecase.NewCategoryUsecase(store.Categories(), log)
	suppliers := usecase.NewSupplierUsecase(store.Suppliers(), log)
	locations := usecase.NewLocationUsecase(store.Locations(), log)
	items := usecase.NewItemUsecase(store.Items(), store.Categories(), store.Suppliers(), store.Locations(), store.Transactions(), store, clock, log)
	txns := usecase.NewTransactionUsecase(store.Transactions(), store.TransactionTypes(), log)
	posting := usecase.NewPostingUsecase(store, clock, log)
	reports := usecase.NewReportUsecase(store.Reports(), store.Items(), store.Transactions(), log)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if operatorEmail != "" {
				c.Set(middleware.CtxOperatorKey, operatorEmail)
			}
			return next(c)
		}
	})

	htmlGuard := middleware.RequireOperator(handler.OnDeniedHTML)
	handler.NewItemHandler(items, categories, suppliers, locations, 20).RegisterRoutes(e, htmlGuard)
	handler.NewCategoryHandler(categories).RegisterRoutes(e, htmlGuard)
	handler.NewSupplierHandler(suppliers).RegisterRoutes(e, htmlGuard)
	handler.NewLocationHandler(locations).RegisterRoutes(e, htmlGuard)
	handler.NewTransactionHandler(txns, posting, items, suppliers, 20).RegisterRoutes(e, htmlGuard)
	handler.NewReportHandler(reports, categories).RegisterRoutes(e)
	handler.NewAPIHandler(items, suppliers, txns, reports, posting).RegisterRoutes(e, middleware.RequireOperator(handler.OnDeniedJSON))

	return &testEnv{e: e, store: store}
}

func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) postJSON(t *testing.T, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedItem(t *testing.T, code string, stock int64) model.Item {
	t.Helper()
	ctx := context.Background()

	cat, err := env.store.Categories().FindByName(ctx, "Electronics")
	if err != nil {
		cat, err = env.store.Categories().Create(ctx, model.Category{Name: "Electronics"})
		require.NoError(t, err)
	}
	it, err := env.store.Items().Create(ctx, model.Item{
		Code:         code,
		Name:         "Item " + code,
		CategoryID:   cat.ID,
		UnitPrice:    decimal.RequireFromString("12.50"),
		CurrentStock: stock,
		ReorderLevel: 10,
	})
	require.NoError(t, err)
	return it
}

func (env *testEnv) stockOf(t *testing.T, id int64) int64 {
	t.Helper()
	it, err := env.store.Items().FindByID(context.Background(), id)
	require.NoError(t, err)
	return it.CurrentStock
}

// レスポンスのflash Cookieを "kind|message" で返す
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "inv_flash" && ck.Value != "" {
			v, err := url.QueryUnescape(ck.Value)
			require.NoError(t, err)
			return v
		}
	}
	return ""
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
