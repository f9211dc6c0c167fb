package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"inventory/internal/middleware"
	"inventory/internal/usecase"
	"inventory/internal/web"

	"github.com/labstack/echo/v4"
)

// JSONのエラー { "error": "..." }
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONルート用
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// HTMLルート用（エラーページ）
func renderError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
		status, msg = he.Status, he.Message
	}
	return RenderErrorPage(c, status, msg)
}

type ErrorPageData struct {
	Status  int
	Message string
}

// RenderErrorPage はサーバーの404/500ハンドラからも使う
func RenderErrorPage(c echo.Context, status int, msg string) error {
	return c.Render(status, "error", newPage(c, http.StatusText(status), ErrorPageData{Status: status, Message: msg}))
}

// フォーム再表示用のメッセージとステータス
func formError(err error) (int, string) {
	if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
		return he.Status, he.Message
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

// 画面共通の値を埋める
func newPage(c echo.Context, title string, data any) web.Page {
	csrf, _ := c.Get("csrf").(string)
	return web.Page{
		Title:    title,
		Operator: middleware.Operator(c),
		CSRF:     csrf,
		Flash:    popFlash(c),
		Data:     data,
	}
}

func render(c echo.Context, status int, name, title string, data any) error {
	return c.Render(status, name, newPage(c, title, data))
}

// フォームの再表示（エラー付き）
func renderForm(c echo.Context, err error, name, title string, data any) error {
	status, msg := formError(err)
	p := newPage(c, title, data)
	p.Error = msg
	return c.Render(status, name, p)
}

func redirectWithFlash(c echo.Context, kind, msg, to string) error {
	setFlash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

var errInvalidID = errors.New("invalid id")

// パスパラメータのID
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// 空なら nil
func optionalInt64(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return nil, errInvalidID
	}
	return &v, nil
}

// page（default 1）
func queryPage(c echo.Context) int {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	return page
}

// OnDeniedHTML は未ログインのフォーム送信をログイン画面へ戻す
func OnDeniedHTML(c echo.Context) error {
	next := c.Request().Header.Get("Referer")
	to := "/login"
	if u, err := url.Parse(next); err == nil && next != "" && u.Host == c.Request().Host {
		to += "?next=" + url.QueryEscape(u.RequestURI())
	}
	return redirectWithFlash(c, "warning", "Please log in to make changes.", to)
}

// OnDeniedJSON はAPI用
func OnDeniedJSON(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
