package handler

import (
	"net/http"
	"strings"
	"time"

	"inventory/internal/domain/model"
	"inventory/internal/usecase"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// /reports の画面
type ReportHandler struct {
	reports    *usecase.ReportUsecase
	categories *usecase.CategoryUsecase
}

func NewReportHandler(reports *usecase.ReportUsecase, categories *usecase.CategoryUsecase) *ReportHandler {
	return &ReportHandler{reports: reports, categories: categories}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.dashboard)
	e.GET("/reports/stock-levels", h.stockLevels)
	e.GET("/reports/low-stock", h.lowStock)
	e.GET("/reports/movement-history", h.movementHistory)
	e.GET("/reports/category-summary", h.categorySummary)
}

func (h *ReportHandler) dashboard(c echo.Context) error {
	out, err := h.reports.Dashboard(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "dashboard", "Dashboard", out)
}

type StockLevelsPage struct {
	Items      []model.Item
	Categories []model.Category
	CategoryID *int64
}

func (h *ReportHandler) stockLevels(c echo.Context) error {
	ctx := c.Request().Context()
	categoryID, _ := optionalInt64(c.QueryParam("category_id"))

	items, err := h.reports.StockLevels(ctx, categoryID)
	if err != nil {
		return renderError(c, err)
	}
	cats, err := h.categories.List(ctx)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "report_stock_levels", "Stock Levels", StockLevelsPage{
		Items:      items,
		Categories: cats,
		CategoryID: categoryID,
	})
}

func (h *ReportHandler) lowStock(c echo.Context) error {
	items, err := h.reports.LowStock(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "report_low_stock", "Low Stock", items)
}

type MovementHistoryPage struct {
	usecase.MovementHistoryOutput
	From string
	To   string
}

// 日付（YYYY-MM-DD）。toはその日の終わりまで含める。
func parseDateRange(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := strings.TrimSpace(fromRaw); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return nil, nil, usecase.NewHTTPError(http.StatusBadRequest, "from must be a date (YYYY-MM-DD)")
		}
		from = &d
	}
	if s := strings.TrimSpace(toRaw); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return nil, nil, usecase.NewHTTPError(http.StatusBadRequest, "to must be a date (YYYY-MM-DD)")
		}
		end := d.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

func (h *ReportHandler) movementHistory(c echo.Context) error {
	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	from, to, err := parseDateRange(fromRaw, toRaw)
	if err != nil {
		return renderError(c, err)
	}
	out, err := h.reports.MovementHistory(c.Request().Context(), queryPage(c), from, to)
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "report_movement_history", "Movement History", MovementHistoryPage{
		MovementHistoryOutput: out,
		From:                  strings.TrimSpace(fromRaw),
		To:                    strings.TrimSpace(toRaw),
	})
}

func (h *ReportHandler) categorySummary(c echo.Context) error {
	rows, err := h.reports.CategorySummary(c.Request().Context())
	if err != nil {
		return renderError(c, err)
	}
	return render(c, http.StatusOK, "report_category_summary", "Category Summary", rows)
}
