package server

import (
	"net/http"

	"inventory/internal/handler"
	"inventory/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Item        *handler.ItemHandler
	Category    *handler.CategoryHandler
	Supplier    *handler.SupplierHandler
	Location    *handler.LocationHandler
	Transaction *handler.TransactionHandler
	Report      *handler.ReportHandler
	API         *handler.APIHandler
}

// RegisterRoutes はGETを公開、POST（変更系）をオペレーター限定にする
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	htmlGuard := middleware.RequireOperator(handler.OnDeniedHTML)
	apiGuard := middleware.RequireOperator(handler.OnDeniedJSON)
	loginLimit := middleware.RateLimit(opt.Counter, opt.LoginLimit, opt.Log)

	e.GET("/health", health(opt))

	h.Auth.RegisterRoutes(e, loginLimit)
	h.Report.RegisterRoutes(e)
	h.Item.RegisterRoutes(e, htmlGuard)
	h.Category.RegisterRoutes(e, htmlGuard)
	h.Supplier.RegisterRoutes(e, htmlGuard)
	h.Location.RegisterRoutes(e, htmlGuard)
	h.Transaction.RegisterRoutes(e, htmlGuard)
	h.API.RegisterRoutes(e, apiGuard)
}

type healthResponse struct {
	Status string `json:"status"`
}

func health(opt Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		if opt.Ping != nil {
			if err := opt.Ping(c.Request().Context()); err != nil {
				opt.Log.Warn("health check failed", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	}
}
