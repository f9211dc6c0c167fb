package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"inventory/internal/middleware"
	auth "inventory/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	loginUC      *auth.LoginUsecase // ログインusecase
	cookieSecure bool
	log          *zap.Logger
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase, cookieSecure bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{loginUC: loginUC, cookieSecure: cookieSecure, log: log}
}

// limiterはPOSTのログインだけに付ける
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, limiter ...echo.MiddlewareFunc) {
	e.GET("/login", h.loginForm)
	e.POST("/login", h.login, limiter...)
	e.POST("/logout", h.logout)
	e.POST("/api/login", h.apiLogin, limiter...)
}

type LoginPage struct {
	Email string
	Next  string
}

// 同じサイト内のパスだけ許す
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *AuthHandler) loginForm(c echo.Context) error {
	if middleware.Operator(c) != "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return render(c, http.StatusOK, "login", "Log in", LoginPage{Next: c.QueryParam("next")})
}

func (h *AuthHandler) login(c echo.Context) error {
	in := auth.LoginInput{Email: c.FormValue("email"), Password: c.FormValue("password")}
	page := LoginPage{Email: in.Email, Next: c.FormValue("next")}

	out, err := h.loginUC.Execute(c.Request().Context(), in)
	if err != nil {
		status, msg := http.StatusUnauthorized, "Invalid email or password."
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Error("login failed", zap.Error(err))
			status, msg = http.StatusInternalServerError, "Something went wrong. Please try again."
		}
		p := newPage(c, "Log in", page)
		p.Error = msg
		return c.Render(status, "login", p)
	}

	h.setTokenCookie(c, out.Token.AccessToken, out.Token.ExpiresAt)
	h.log.Info("operator logged in", zap.String("operator", out.Operator), zap.String("ip", c.RealIP()))
	return redirectWithFlash(c, "success", "Logged in as "+out.Operator+".", safeNext(page.Next))
}

func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return redirectWithFlash(c, "info", "Logged out.", "/")
}

// /api/login のリクエストボディ
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// APIクライアントはトークンをAuthorizationヘッダで送る
func (h *AuthHandler) apiLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		}
		h.log.Error("api login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// トークンをCookieにセット
func (h *AuthHandler) setTokenCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}
