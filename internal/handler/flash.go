package handler

import (
	"net/http"
	"net/url"
	"strings"

	"inventory/internal/web"

	"github.com/labstack/echo/v4"
)

const flashCookieName = "inv_flash"

// リダイレクト先で1回だけ出すメッセージ
func setFlash(c echo.Context, kind, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(c echo.Context) *web.Flash {
	ck, err := c.Cookie(flashCookieName)
	if err != nil || ck.Value == "" {
		return nil
	}

	//読んだら消す
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok || msg == "" {
		return nil
	}
	return &web.Flash{Kind: kind, Message: msg}
}
